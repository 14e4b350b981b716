package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rfielding/des-sct/des"
)

// GenerateGraphviz generates a Graphviz DOT representation of an automaton.
// Marked states are drawn as double circles, uncontrollable events as
// dashed edges.
func GenerateGraphviz(a *des.Automaton) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %q {\n", a.Name()))
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n")
	sb.WriteString("\n")

	// Add invisible start node pointing to initial state
	sb.WriteString("  start [shape=point];\n")
	sb.WriteString(fmt.Sprintf("  start -> %q;\n", a.InitialState().Alias()))
	sb.WriteString("\n")

	for _, s := range a.States() {
		if s.IsMarked() {
			sb.WriteString(fmt.Sprintf("  %q [shape=doublecircle];\n", s.Alias()))
		} else {
			sb.WriteString(fmt.Sprintf("  %q;\n", s.Alias()))
		}
	}
	sb.WriteString("\n")

	for _, t := range a.Transitions() {
		style := ""
		if !t.Trigger.IsControllable() {
			style = ", style=dashed"
		}
		sb.WriteString(fmt.Sprintf("  %q -> %q [label=%q%s];\n",
			t.Origin.Alias(), t.Destination.Alias(), t.Trigger.Alias(), style))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// SaveGraphviz writes the DOT representation of a to a file.
func SaveGraphviz(a *des.Automaton, filename string) error {
	return os.WriteFile(filename, []byte(GenerateGraphviz(a)), 0o644)
}
