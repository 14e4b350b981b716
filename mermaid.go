package main

import (
	"fmt"
	"io"

	"github.com/rfielding/des-sct/des"
)

// WriteMermaidStateDiagram writes a Mermaid stateDiagram-v2 of a to w.
// States get positional ids (composite aliases are not valid Mermaid
// identifiers) and carry their alias as description; marked states lead
// to the final pseudo-state.
func WriteMermaidStateDiagram(a *des.Automaton, w io.Writer) error {
	states := a.States()
	id := make(map[des.State]string, len(states))
	for i, s := range states {
		id[s] = fmt.Sprintf("s%d", i)
	}

	if _, err := fmt.Fprintln(w, "stateDiagram-v2"); err != nil {
		return err
	}
	fmt.Fprintf(w, "    [*] --> %s\n", id[a.InitialState()])
	for _, t := range a.Transitions() {
		fmt.Fprintf(w, "    %s --> %s: %s\n", id[t.Origin], id[t.Destination], t.Trigger.Alias())
	}
	for _, s := range a.MarkedStates() {
		fmt.Fprintf(w, "    %s --> [*]\n", id[s])
	}

	fmt.Fprintln(w)
	for _, s := range states {
		fmt.Fprintf(w, "    %s: %s\n", id[s], s.Alias())
	}
	return nil
}
