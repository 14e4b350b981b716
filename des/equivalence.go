package des

import (
	"slices"

	u "github.com/araddon/gou"
	"github.com/rfielding/des-sct/graph"
)

// Isomorphic reports whether a and b are the same automaton up to state
// names: equal alphabets and sizes, and a bijection between states that
// preserves the initial state, markings and transitions.
func Isomorphic(a, b *Automaton) bool {
	if a.Size() != b.Size() || !slices.Equal(a.events, b.events) {
		return false
	}
	fwd := make([]int, a.Size())
	bwd := make([]int, b.Size())
	for i := range fwd {
		fwd[i], bwd[i] = -1, -1
	}
	fwd[0], bwd[0] = 0, 0
	queue := []int{0}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		j := fwd[i]
		if a.states[i].marking != b.states[j].marking || len(a.adj[i]) != len(b.adj[j]) {
			return false
		}
		for k, ea := range a.adj[i] {
			eb := b.adj[j][k]
			if ea.event != eb.event {
				return false
			}
			switch {
			case fwd[ea.dst] < 0 && bwd[eb.dst] < 0:
				fwd[ea.dst], bwd[eb.dst] = eb.dst, ea.dst
				queue = append(queue, ea.dst)
			case fwd[ea.dst] != eb.dst || bwd[eb.dst] != ea.dst:
				return false
			}
		}
	}
	// states unreachable from the initial state are not compared
	// structurally; matching sizes is all that is required of them
	return true
}

// LanguageEquivalent reports whether a and b generate and mark the same
// languages. Both are walked in lockstep from their initial states; any
// reachable pair disagreeing on marking or on enabled events is a
// distinguishing word.
func LanguageEquivalent(a, b *Automaton) bool {
	type pair struct{ i, j int }
	seen := map[pair]bool{{0, 0}: true}
	queue := []pair{{0, 0}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if a.states[p.i].marking != b.states[p.j].marking || len(a.adj[p.i]) != len(b.adj[p.j]) {
			return false
		}
		for _, ea := range a.adj[p.i] {
			eb, ok := b.eventIx[a.events[ea.event]]
			if !ok {
				return false
			}
			dj := b.next(p.j, eb)
			if dj < 0 {
				return false
			}
			q := pair{ea.dst, dj}
			if !seen[q] {
				seen[q] = true
				queue = append(queue, q)
			}
		}
	}
	return true
}

// IsNonblocking reports whether every state reachable from the initial
// state can still reach a marked state (AG EF marked).
func (a *Automaton) IsNonblocking() bool {
	f := graph.AG{F: graph.EF{F: graph.Atom{Vertices: a.markedSet()}}}
	return graph.SatIn(f, a.stateGraph(), 0)
}

// IsNonconflicting reports whether the composition of the automata is
// nonblocking, which is what local modular supervisors need to be jointly
// optimal.
func IsNonconflicting(automata []*Automaton, opts ...Option) (bool, error) {
	g, err := ParallelComposition(automata, opts...)
	if err != nil {
		return false, err
	}
	ok := g.IsNonblocking()
	if !ok {
		u.Warnf("%s is conflicting", g.Name())
	}
	return ok, nil
}
