package des

import (
	"slices"

	u "github.com/araddon/gou"
)

// bitset over event indices.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i int)      { b[i/64] |= 1 << (i % 64) }
func (b bitset) has(i int) bool { return b[i/64]&(1<<(i%64)) != 0 }

func (b bitset) intersects(o bitset) bool {
	for i := range b {
		if b[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

func (b bitset) or(o bitset) bitset {
	out := make(bitset, len(b))
	for i := range b {
		out[i] = b[i] | o[i]
	}
	return out
}

// controlData is what a block of merged supervisor states must agree on.
// enabled and disabled are the events the block allows and forbids;
// markedT/unmarkedT record the markings of members met together with a
// marked plant state; next maps each event to one member-level target.
type controlData struct {
	enabled, disabled  bitset
	markedT, unmarkedT bool
	next               map[int]int
}

func (d *controlData) consistentWith(o *controlData) bool {
	if d.enabled.intersects(o.disabled) || o.enabled.intersects(d.disabled) {
		return false
	}
	return !((d.markedT || o.markedT) && (d.unmarkedT || o.unmarkedT))
}

// cover is a union-find partition of supervisor states with the control
// data of each block stored at its root. A trial merge writes into the
// overlay maps and is either committed or dropped.
type cover struct {
	parent []int
	data   []*controlData

	trialParent map[int]int
	trialData   map[int]*controlData
}

func (c *cover) find(x int) int {
	for {
		p, ok := c.trialParent[x]
		if !ok {
			p = c.parent[x]
		}
		if p == x {
			return x
		}
		x = p
	}
}

func (c *cover) block(root int) *controlData {
	if d, ok := c.trialData[root]; ok {
		return d
	}
	return c.data[root]
}

// tryMerge merges the blocks of x and y together with every pair of
// blocks the merge forces (common events must lead to a common block).
// It commits and returns true when all resulting blocks are consistent.
func (c *cover) tryMerge(x, y int) bool {
	c.trialParent = make(map[int]int)
	c.trialData = make(map[int]*controlData)
	defer func() { c.trialParent, c.trialData = nil, nil }()

	pairs := [][2]int{{x, y}}
	for len(pairs) > 0 {
		p := pairs[len(pairs)-1]
		pairs = pairs[:len(pairs)-1]
		rx, ry := c.find(p[0]), c.find(p[1])
		if rx == ry {
			continue
		}
		if ry < rx {
			rx, ry = ry, rx
		}
		dx, dy := c.block(rx), c.block(ry)
		if !dx.consistentWith(dy) {
			return false
		}
		merged := &controlData{
			enabled:   dx.enabled.or(dy.enabled),
			disabled:  dx.disabled.or(dy.disabled),
			markedT:   dx.markedT || dy.markedT,
			unmarkedT: dx.unmarkedT || dy.unmarkedT,
			next:      make(map[int]int, len(dx.next)+len(dy.next)),
		}
		for ev, t := range dx.next {
			merged.next[ev] = t
		}
		for ev, t := range dy.next {
			if t0, ok := merged.next[ev]; ok {
				pairs = append(pairs, [2]int{t0, t})
			} else {
				merged.next[ev] = t
			}
		}
		c.trialParent[ry] = rx
		c.trialData[rx] = merged
	}

	for k, v := range c.trialParent {
		c.parent[k] = v
	}
	for k, v := range c.trialData {
		c.data[k] = v
	}
	return true
}

// ReduceSupervisor merges states of a supervisor that never disagree on
// control: no merged state enables an event another one disables while
// the plant could execute it, and members seen with a marked plant state
// agree on marking. Merges are closed under transitions so the result
// stays deterministic. States are tried greedily in arena order, so the
// result is small but not necessarily minimum. The reduced supervisor
// yields the same closed-loop behavior with plant as sup.
func ReduceSupervisor(plant, sup *Automaton, opts ...Option) *Automaton {
	cfg := newConfig(opts)
	sp := sup.closedLoop(plant, cfg)
	n, m := sup.Size(), len(sup.events)

	c := &cover{parent: make([]int, n), data: make([]*controlData, n)}
	for x := range n {
		c.parent[x] = x
		d := &controlData{enabled: newBitset(m), disabled: newBitset(m), next: make(map[int]int)}
		for _, e := range sup.adj[x] {
			d.enabled.set(e.event)
			d.next[e.event] = e.dst
		}
		c.data[x] = d
	}
	for _, t := range sp.tuples {
		g, x := t[0], t[1]
		d := c.data[x]
		for _, e := range plant.adj[g] {
			si, shared := sup.eventIx[plant.events[e.event]]
			if shared && !d.enabled.has(si) {
				d.disabled.set(si)
			}
		}
		if plant.states[g].IsMarked() {
			if sup.states[x].IsMarked() {
				d.markedT = true
			} else {
				d.unmarkedT = true
			}
		}
	}

	for x := range n {
		for y := x + 1; y < n; y++ {
			if c.find(x) != c.find(y) {
				c.tryMerge(x, y)
			}
		}
	}

	blockOf := make([]int, n)
	var roots []int
	for x := range n {
		r := c.find(x)
		if r == x {
			blockOf[x] = len(roots)
			roots = append(roots, x)
		}
	}
	for x := range n {
		blockOf[x] = blockOf[c.find(x)]
	}

	states := make([]State, len(roots))
	adj := make([][]edge, len(roots))
	for b, r := range roots {
		d := c.data[r]
		marking := Unmarked
		if d.markedT {
			marking = Marked
		}
		states[b] = NewState(sup.states[r].alias, marking)
		for ev, t := range d.next {
			adj[b] = append(adj[b], edge{event: ev, dst: blockOf[t]})
		}
		slices.SortFunc(adj[b], compareEdges)
	}
	u.Debugf("reduced supervisor %s from %d to %d states", sup.Name(), n, len(roots))
	return build(sup.name, states, sup.events, adj)
}
