package des

import "slices"

// closedLoop explores plant || a, the plant in component 0 and a in 1.
func (a *Automaton) closedLoop(plant *Automaton, cfg *config) *stateSpace {
	c := newParallelComposer([]*Automaton{plant, a})
	return explore(cfg, c.root(), c.expand)
}

// IsControllable reports whether a, used as a specification or
// supervisor for plant, never needs to disable an uncontrollable event:
// at every reachable state of plant || a, each uncontrollable event the
// plant can execute and a knows about is also enabled in a.
func (a *Automaton) IsControllable(plant *Automaton, opts ...Option) bool {
	cfg := newConfig(opts)
	sp := a.closedLoop(plant, cfg)
	unc := plant.uncontrollableIndices()
	for _, t := range sp.tuples {
		for _, ui := range unc {
			if plant.next(t[0], ui) < 0 {
				continue
			}
			ai, shared := a.eventIx[plant.events[ui]]
			if shared && a.next(t[1], ai) < 0 {
				return false
			}
		}
	}
	return true
}

// DisabledEvents returns, for each state of a reachable in plant || a,
// the events of a's alphabet the plant could execute there but a does
// not allow. States that disable nothing are left out.
func (a *Automaton) DisabledEvents(plant *Automaton, opts ...Option) map[State][]Event {
	cfg := newConfig(opts)
	sp := a.closedLoop(plant, cfg)

	disabled := make(map[int]map[int]struct{})
	for _, t := range sp.tuples {
		for _, e := range plant.adj[t[0]] {
			ai, shared := a.eventIx[plant.events[e.event]]
			if !shared || a.next(t[1], ai) >= 0 {
				continue
			}
			if disabled[t[1]] == nil {
				disabled[t[1]] = make(map[int]struct{})
			}
			disabled[t[1]][ai] = struct{}{}
		}
	}

	out := make(map[State][]Event, len(disabled))
	for si, evs := range disabled {
		list := make([]Event, 0, len(evs))
		for ei := range evs {
			list = append(list, a.events[ei])
		}
		slices.SortFunc(list, compareEvents)
		out[a.states[si]] = list
	}
	return out
}

func (a *Automaton) uncontrollableIndices() []int {
	var out []int
	for i, e := range a.events {
		if !e.IsControllable() {
			out = append(out, i)
		}
	}
	return out
}
