package main

import (
	"fmt"
	"os"

	u "github.com/araddon/gou"
	"github.com/rfielding/des-sct/des"
)

// machine builds idle --start--> busy --finish (uncontrollable)--> idle.
func machine(name, start, finish string) *des.Automaton {
	idle := des.NewState("idle", des.Marked)
	busy := des.NewState("busy", des.Unmarked)
	return des.New(name, idle, []des.Transition{
		des.NewTransition(idle, des.NewEvent(start, des.Controllable), busy),
		des.NewTransition(busy, des.NewEvent(finish, des.Uncontrollable), idle),
	})
}

func main() {
	u.SetupLogging("warn")
	u.SetColorIfTerminal()

	fmt.Println("=== Supervisor synthesis demo (small factory) ===")

	m1 := machine("M1", "a1", "b1")
	m2 := machine("M2", "a2", "b2")
	empty := des.NewState("empty", des.Marked)
	full := des.NewState("full", des.Unmarked)
	buffer := des.New("E", empty, []des.Transition{
		des.NewTransition(empty, des.NewEvent("b1", des.Uncontrollable), full),
		des.NewTransition(full, des.NewEvent("a2", des.Controllable), empty),
	})

	plants := []*des.Automaton{m1, m2}
	plant, err := des.ParallelComposition(plants)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Println("Buffer controllable as is:", buffer.IsControllable(plant))

	metrics := des.NewMetrics()
	sup, err := des.MonolithicSupervisor(plants, []*des.Automaton{buffer}, des.Parallel(0), des.WithMetrics(metrics))
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Println(sup)
	fmt.Println("Supervisor controllable:", sup.IsControllable(plant))
	fmt.Println("Supervisor nonblocking:", sup.IsNonblocking())
	for s, evs := range sup.DisabledEvents(plant) {
		fmt.Printf("  %s disables %v\n", s, evs)
	}

	reduced := des.ReduceSupervisor(plant, sup)
	fmt.Printf("Reduced supervisor: %d states (from %d)\n", reduced.Size(), sup.Size())
	fmt.Println()
	fmt.Print(metrics.Table())

	// ----- Observer and opacity over a partially observed sensor -----

	fmt.Println("\n=== Observer demo ===")

	on := des.NewState("on", des.Marked)
	standby := des.NewState("standby", des.Unmarked)
	sleep := des.NewEvent("sleep", des.Uncontrollable)
	sensor := des.New("Sensor", on, []des.Transition{
		des.NewTransition(on, sleep, standby),
		des.NewTransition(standby, sleep, standby),
		des.NewTransition(standby, des.NewEvent("report", des.Controllable), on),
	})

	obs := des.Observer(sensor, []des.Event{sleep})
	for _, s := range obs.States() {
		fmt.Printf("  %s stands for %v\n", s, obs.Members(s))
	}

	opaque, _ := des.CurrentStepOpacity(sensor, []des.State{standby}, []des.Event{sleep})
	fmt.Println("Standby is current-state opaque:", opaque)
	opaque, _, _ = des.KStepsOpacity(sensor, []des.State{standby}, []des.Event{sleep}, 1)
	fmt.Println("Standby is 1-step opaque:", opaque)
}
