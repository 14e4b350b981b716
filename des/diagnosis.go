package des

import (
	"fmt"

	u "github.com/araddon/gou"
	"github.com/rfielding/des-sct/graph"
)

// verifier sides: which copy of the system moves on an edge.
const (
	bothMove = iota
	faultyMoves
	normalMoves
	sides
)

// twinPlant is the diagnosability verifier. A state is (x1, f, x2): copy
// 1 in x1, f = 1 once copy 1 executed a fault, copy 2 in x2 having
// executed no fault. Observable events move both copies together;
// unobservable events move one copy alone. Edge events encode
// eventIndex*sides + side.
type twinPlant struct {
	a     *Automaton
	unobs []bool
	fault []bool
}

func (tp *twinPlant) expand(t []int) []successor {
	x1, f, x2 := t[0], t[1], t[2]
	var out []successor
	for ev := range tp.a.events {
		if !tp.unobs[ev] {
			d1, d2 := tp.a.next(x1, ev), tp.a.next(x2, ev)
			if d1 >= 0 && d2 >= 0 {
				out = append(out, successor{event: ev*sides + bothMove, target: []int{d1, f, d2}})
			}
			continue
		}
		if d1 := tp.a.next(x1, ev); d1 >= 0 {
			nf := f
			if tp.fault[ev] {
				nf = 1
			}
			out = append(out, successor{event: ev*sides + faultyMoves, target: []int{d1, nf, x2}})
		}
		if tp.fault[ev] {
			continue
		}
		if d2 := tp.a.next(x2, ev); d2 >= 0 {
			out = append(out, successor{event: ev*sides + normalMoves, target: []int{x1, f, d2}})
		}
	}
	return out
}

// IsDiagnosable reports whether every occurrence of a fault is detected
// after finitely many further events: no arbitrarily long faulty run has
// the same observation as a fault-free run. All faults form one class
// and must be unobservable.
//
// a is not diagnosable exactly when the verifier has a cycle of states
// where copy 1 is faulty along which copy 1 moves at least once.
func IsDiagnosable(a *Automaton, unobservable, faults []Event, opts ...Option) (bool, error) {
	tp := &twinPlant{a: a, unobs: make([]bool, len(a.events)), fault: make([]bool, len(a.events))}
	for _, i := range a.eventIndices(unobservable) {
		tp.unobs[i] = true
	}
	for _, i := range a.eventIndices(faults) {
		if !tp.unobs[i] {
			return false, fmt.Errorf("%w: %s", ErrObservableFault, a.events[i])
		}
		tp.fault[i] = true
	}
	if unobservableCycles(a, unobservable) {
		u.Warnf("%s has cycles of unobservable events; diagnosis may wait forever", a.Name())
	}

	cfg := newConfig(opts)
	sp := explore(cfg, []int{0, 0, 0}, tp.expand)

	g, faulty, moves := fairGraph(sp)
	if z := fairCycles(g, faulty, moves); z.Size() > 0 {
		for _, v := range z.ToSlice() {
			if v < sp.size() {
				u.Debugf("%s: faulty cycle through verifier state %v", a.Name(), sp.tuples[v])
				break
			}
		}
		return false, nil
	}
	return true, nil
}

// fairGraph restricts the verifier to its faulty states (f = 1, closed
// under successors) and puts a fresh vertex in the middle of every edge
// on which copy 1 moves. Those vertices are returned as moves.
func fairGraph(sp *stateSpace) (*graph.Graph, graph.Set, graph.Set) {
	n := sp.size()
	extra := 0
	for src, es := range sp.edges {
		if sp.tuples[src][1] == 0 {
			continue
		}
		for _, e := range es {
			if e.event%sides != normalMoves {
				extra++
			}
		}
	}

	g := graph.New(n + extra)
	faulty, moves := graph.NewSet(), graph.NewSet()
	mid := n
	for src, es := range sp.edges {
		if sp.tuples[src][1] == 0 {
			continue
		}
		faulty.Add(src)
		for _, e := range es {
			if e.event%sides == normalMoves {
				g.AddEdge(src, e.dst)
				continue
			}
			g.AddEdge(src, mid)
			g.AddEdge(mid, e.dst)
			faulty.Add(mid)
			moves.Add(mid)
			mid++
		}
	}
	return g, faulty, moves
}

// fairCycles returns the vertices with an infinite path inside faulty
// that visits moves infinitely often:
// νZ. faulty ∧ EX E[faulty U (Z ∧ moves)], starting from EG faulty.
func fairCycles(g *graph.Graph, faulty, moves graph.Set) graph.Set {
	inFaulty := graph.Atom{Vertices: faulty}
	z := graph.EG{F: inFaulty}.Sat(g)
	for {
		fair := graph.And{Left: graph.Atom{Vertices: z}, Right: graph.Atom{Vertices: moves}}
		step := graph.And{
			Left:  graph.Atom{Vertices: z},
			Right: graph.And{Left: inFaulty, Right: graph.EX{F: graph.EU{P: inFaulty, Q: fair}}},
		}
		next := step.Sat(g)
		if next.Equals(z) {
			return z
		}
		z = next
	}
}
