package des

import (
	"fmt"

	u "github.com/araddon/gou"
)

func init() {
	u.SetupLogging("debug")
}

func ev(alias string) Event  { return NewEvent(alias, Controllable) }
func uev(alias string) Event { return NewEvent(alias, Uncontrollable) }
func st(alias string) State  { return NewState(alias, Unmarked) }
func mst(alias string) State { return NewState(alias, Marked) }

func tr(o State, e Event, d State) Transition { return NewTransition(o, e, d) }

// machine i of the small factory: idle (marked) --a_i--> working
// --b_i (uncontrollable)--> idle.
func machine(i int) *Automaton {
	idle, working := mst("0"), st("1")
	return New(fmt.Sprintf("M%d", i), idle, []Transition{
		tr(idle, ev(fmt.Sprintf("a%d", i)), working),
		tr(working, uev(fmt.Sprintf("b%d", i)), idle),
	})
}

// buffer of capacity one between M1 and M2: b1 fills it, a2 empties it.
func buffer() *Automaton {
	empty, full := mst("0"), st("1")
	return New("E", empty, []Transition{
		tr(empty, uev("b1"), full),
		tr(full, ev("a2"), empty),
	})
}

func smallFactory() (plants, specs []*Automaton) {
	return []*Automaton{machine(1), machine(2)}, []*Automaton{buffer()}
}

// cycle is a private three-state cycle over x_i, y_i, z_i.
func cycle(i int) *Automaton {
	s0, s1, s2 := mst("0"), st("1"), st("2")
	return New(fmt.Sprintf("C%d", i), s0, []Transition{
		tr(s0, ev(fmt.Sprintf("x%d", i)), s1),
		tr(s1, ev(fmt.Sprintf("y%d", i)), s2),
		tr(s2, ev(fmt.Sprintf("z%d", i)), s0),
	})
}

func mustCompose(automata ...*Automaton) *Automaton {
	c, err := ParallelComposition(automata)
	if err != nil {
		panic(err)
	}
	return c
}
