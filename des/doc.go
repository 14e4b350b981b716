// Package des models discrete event systems as deterministic finite
// automata over controllable and uncontrollable events, and implements
// the supervisory control operations built on top of them.
//
// Events, states and transitions are small comparable values: two
// events with the same alias and controllability are the same event no
// matter which automaton they came from, which is what lets composition
// and synthesis match alphabets across independently built automata.
//
// An Automaton is immutable. Every operation (parallel composition,
// product, trim, minimization, projection, synthesis) returns a new
// automaton and never touches its operands, so automata can be shared
// freely between goroutines.
//
// Composite state spaces are explored on the fly from the composite
// initial state, breadth first. The expansion of each frontier can be
// spread across worker goroutines with the Parallel option; results are
// merged in frontier order so the output does not depend on scheduling.
//
// A typical synthesis run:
//
//	m1 := des.New("M1", idle, []des.Transition{...})
//	m2 := des.New("M2", idle, []des.Transition{...})
//	buffer := des.New("E", empty, []des.Transition{...})
//	sup, err := des.MonolithicSupervisor(
//		[]*des.Automaton{m1, m2},
//		[]*des.Automaton{buffer},
//		des.Parallel(0),
//	)
package des
