package des

import (
	"slices"

	u "github.com/araddon/gou"
	"github.com/rfielding/des-sct/graph"
)

// ObserverPropertyVerify reports whether the natural projection erasing
// the given events has the observer property for a: whenever a's
// projected marked behavior can continue by an observable word t after
// some observation, every state a may actually be in can also continue
// by a word projecting to t. Apply it to PrefixClosure() for the
// closed-language variant.
//
// Every member x of every reachable observer state Y is checked: the
// marked language of Y must be contained in the projection of x's
// marked language, which is explored as an estimate started at x.
func ObserverPropertyVerify(a *Automaton, erased []Event, opts ...Option) bool {
	cfg := newConfig(opts)
	e := newEstimator(a, erased, 1, false)
	sp := explore(cfg, e.root([][]int{{0}}), e.expand)
	obs := e.automaton("", sp)
	coacc := obs.coaccessible()

	starts := make(map[int][]int)
	for y, t := range sp.tuples {
		for _, x := range t {
			starts[x] = append(starts[x], y)
		}
	}
	xs := make([]int, 0, len(starts))
	for x := range starts {
		xs = append(xs, x)
	}
	slices.Sort(xs)

	for _, x := range xs {
		if !coversEstimates(e, sp, obs, coacc, x, starts[x]) {
			u.Debugf("observer property fails for %s at %s", a.Name(), a.states[x])
			return false
		}
	}
	return true
}

// coversEstimates walks observer states ys in lockstep with the estimate
// started at x and reports whether every marked observer word from ys is
// a marked projected word from x.
func coversEstimates(e *estimator, sp *stateSpace, obs *Automaton, coacc []bool, x int, ys []int) bool {
	type pair struct {
		y   int
		est string
	}
	start := e.root([][]int{{x}})
	seen := make(map[pair]bool)
	type item struct {
		y   int
		est []int
	}
	var queue []item
	for _, y := range ys {
		p := pair{y, tupleKey(start)}
		if !seen[p] {
			seen[p] = true
			queue = append(queue, item{y, start})
		}
	}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if obs.states[it.y].IsMarked() && !e.marked(it.est) {
			return false
		}
		moves := e.expand(it.est)
		for _, ed := range sp.edges[it.y] {
			k := slices.IndexFunc(moves, func(s successor) bool { return s.event == ed.event })
			if k < 0 {
				if coacc[ed.dst] {
					return false
				}
				continue
			}
			p := pair{ed.dst, tupleKey(moves[k].target)}
			if !seen[p] {
				seen[p] = true
				queue = append(queue, item{ed.dst, moves[k].target})
			}
		}
	}
	return true
}

// ObserverPropertySearch looks for observable events to add so that the
// projection erasing the rest of erased has the observer property. Events
// of erased are tried one at a time in alphabet order and stay erased
// when the property still holds. The returned events, which must become
// observable, form a locally minimal set: observing any fewer of them,
// with the others erased, breaks the property along the search path.
func ObserverPropertySearch(a *Automaton, erased []Event, opts ...Option) []Event {
	candidates := slices.Clone(erased)
	slices.SortFunc(candidates, compareEvents)
	candidates = slices.Compact(candidates)

	var hidden, keep []Event
	for _, ev := range candidates {
		trial := append(slices.Clone(hidden), ev)
		if ObserverPropertyVerify(a, trial, opts...) {
			hidden = trial
		} else {
			keep = append(keep, ev)
		}
	}
	return keep
}

// unobservableCycles reports whether a has a cycle made only of the
// given events.
func unobservableCycles(a *Automaton, events []Event) bool {
	set := make(map[int]bool)
	for _, i := range a.eventIndices(events) {
		set[i] = true
	}
	g := graph.New(a.Size())
	for s, edges := range a.adj {
		for _, e := range edges {
			if set[e.event] {
				g.AddEdge(s, e.dst)
			}
		}
	}
	for _, comp := range graph.SCC(g) {
		if graph.IsCyclic(g, comp) {
			return true
		}
	}
	return false
}
