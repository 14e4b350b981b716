package des

import (
	"github.com/rfielding/des-sct/graph"
)

// restrict keeps the states selected by keep (arena order preserved) and
// the transitions between them. The initial state always survives; when
// keep[0] is false it survives isolated.
func (a *Automaton) restrict(keep []bool) *Automaton {
	remap := make([]int, len(a.states))
	var states []State
	for i, s := range a.states {
		remap[i] = -1
		if keep[i] || i == 0 {
			remap[i] = len(states)
			states = append(states, s)
		}
	}
	adj := make([][]edge, len(states))
	for i, edges := range a.adj {
		if !keep[i] {
			continue
		}
		for _, e := range edges {
			if keep[e.dst] {
				adj[remap[i]] = append(adj[remap[i]], edge{event: e.event, dst: remap[e.dst]})
			}
		}
	}
	return build(a.name, states, a.events, adj)
}

func (a *Automaton) accessible() []bool {
	return graph.Reachable(a.stateGraph(), 0)
}

// coaccessible marks the states satisfying EF marked.
func (a *Automaton) coaccessible() []bool {
	sat := graph.EF{F: graph.Atom{Vertices: a.markedSet()}}.Sat(a.stateGraph())
	keep := make([]bool, len(a.states))
	for v := range sat {
		keep[v] = true
	}
	return keep
}

// AccessiblePart keeps the states reachable from the initial state.
func (a *Automaton) AccessiblePart() *Automaton {
	return a.restrict(a.accessible())
}

// CoaccessiblePart keeps the states from which a marked state can be
// reached. If the initial state is not among them it is kept alone, with
// no transitions: the automaton then has an empty marked language.
func (a *Automaton) CoaccessiblePart() *Automaton {
	return a.restrict(a.coaccessible())
}

// Trim keeps the states that are both accessible and coaccessible.
func (a *Automaton) Trim() *Automaton {
	acc, coacc := a.accessible(), a.coaccessible()
	keep := make([]bool, len(acc))
	for i := range keep {
		keep[i] = acc[i] && coacc[i]
	}
	return a.restrict(keep)
}

// Minimal returns the smallest automaton generating and marking the same
// languages. Unreachable states are dropped first, then states are
// partitioned by marking and the partition is refined until every block
// agrees on which events are defined and which block each one leads to.
// Each block is named after its first member in arena order.
func (a *Automaton) Minimal() *Automaton {
	acc := a.AccessiblePart()
	n := len(acc.states)

	class := make([]int, n)
	blocks := 0
	for i, s := range acc.states {
		class[i] = int(s.marking)
	}
	class, blocks = renumber(class)

	for {
		next := make([]int, n)
		ids := make(map[string]int)
		sig := make([]int, 0, 16)
		for i := 0; i < n; i++ {
			sig = append(sig[:0], class[i])
			for _, e := range acc.adj[i] {
				sig = append(sig, e.event, class[e.dst])
			}
			k := tupleKey(sig)
			id, ok := ids[k]
			if !ok {
				id = len(ids)
				ids[k] = id
			}
			next[i] = id
		}
		class = next
		if len(ids) == blocks {
			break
		}
		blocks = len(ids)
	}

	rep := make([]int, blocks)
	for i := range rep {
		rep[i] = -1
	}
	for i := 0; i < n; i++ {
		if rep[class[i]] < 0 {
			rep[class[i]] = i
		}
	}
	states := make([]State, blocks)
	adj := make([][]edge, blocks)
	for b, r := range rep {
		states[b] = acc.states[r]
		for _, e := range acc.adj[r] {
			adj[b] = append(adj[b], edge{event: e.event, dst: class[e.dst]})
		}
	}
	return build(a.name, states, a.events, adj)
}

// renumber maps class ids to 0..k-1 in order of first appearance.
func renumber(class []int) ([]int, int) {
	ids := make(map[int]int)
	out := make([]int, len(class))
	for i, c := range class {
		id, ok := ids[c]
		if !ok {
			id = len(ids)
			ids[c] = id
		}
		out[i] = id
	}
	return out, len(ids)
}
