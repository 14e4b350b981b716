package des

import (
	"slices"
	"strings"
)

// beforeStart fills window positions older than the first observation.
const beforeStart = -1

// estimator is the subset construction shared by projection, observers
// and the opacity checks. An estimate is a set of windows: fixed-length
// runs of state indices whose last entry is a state the system may be in
// now. On an observable event every window moves its last entry along
// the event (shift appends the new state and drops the oldest entry
// instead) and then through the unobservable reach. Estimates are flat
// []int tuples of sorted, distinct windows so they can be explored like
// any other composite state.
type estimator struct {
	a      *Automaton
	unobs  []bool  // by event index of a
	obs    []int   // observable event indices of a, ascending
	reach  [][]int // unobservable reach of each state, sorted
	stride int
	shift  bool
}

func newEstimator(a *Automaton, unobservable []Event, stride int, shift bool) *estimator {
	e := &estimator{a: a, unobs: make([]bool, len(a.events)), stride: stride, shift: shift}
	for _, i := range a.eventIndices(unobservable) {
		e.unobs[i] = true
	}
	for i := range a.events {
		if !e.unobs[i] {
			e.obs = append(e.obs, i)
		}
	}
	e.reach = make([][]int, len(a.states))
	for s := range a.states {
		e.reach[s] = e.unobservableReach(s)
	}
	return e
}

func (e *estimator) unobservableReach(s int) []int {
	seen := map[int]bool{s: true}
	out := []int{s}
	for i := 0; i < len(out); i++ {
		for _, ed := range e.a.adj[out[i]] {
			if e.unobs[ed.event] && !seen[ed.dst] {
				seen[ed.dst] = true
				out = append(out, ed.dst)
			}
		}
	}
	slices.Sort(out)
	return out
}

// events returns the alphabet of the estimator automaton.
func (e *estimator) events() []Event {
	out := make([]Event, len(e.obs))
	for i, ei := range e.obs {
		out[i] = e.a.events[ei]
	}
	return out
}

// windows splits a flat estimate into its windows.
func (e *estimator) windows(t []int) [][]int {
	out := make([][]int, 0, len(t)/e.stride)
	for i := 0; i < len(t); i += e.stride {
		out = append(out, t[i:i+e.stride])
	}
	return out
}

// normalize closes every window under the unobservable reach, then sorts
// and dedupes the windows into a flat estimate.
func (e *estimator) normalize(ws [][]int) []int {
	var closed [][]int
	for _, w := range ws {
		last := w[len(w)-1]
		for _, r := range e.reach[last] {
			cw := slices.Clone(w)
			cw[len(cw)-1] = r
			closed = append(closed, cw)
		}
	}
	slices.SortFunc(closed, slices.Compare)
	closed = slices.CompactFunc(closed, slices.Equal)
	flat := make([]int, 0, len(closed)*e.stride)
	for _, w := range closed {
		flat = append(flat, w...)
	}
	return flat
}

// root builds the initial estimate from the given starting windows.
func (e *estimator) root(ws [][]int) []int {
	return e.normalize(ws)
}

func (e *estimator) expand(t []int) []successor {
	ws := e.windows(t)
	var out []successor
	for k, ev := range e.obs {
		var moved [][]int
		for _, w := range ws {
			d := e.a.next(w[len(w)-1], ev)
			if d < 0 {
				continue
			}
			var nw []int
			if e.shift {
				nw = append(slices.Clone(w[1:]), d)
			} else {
				nw = slices.Clone(w)
				nw[len(nw)-1] = d
			}
			moved = append(moved, nw)
		}
		if len(moved) > 0 {
			out = append(out, successor{event: k, target: e.normalize(moved)})
		}
	}
	return out
}

// current returns the distinct current states of an estimate, ascending.
func (e *estimator) current(t []int) []int {
	var out []int
	for _, w := range e.windows(t) {
		out = append(out, w[len(w)-1])
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// label names an estimate "{a,b}" (windows "(a,b)", "-" before the start)
// and marks it when some current state is marked.
func (e *estimator) label(t []int) State {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, w := range e.windows(t) {
		if i > 0 {
			sb.WriteByte(',')
		}
		if e.stride == 1 {
			sb.WriteString(e.a.states[w[0]].alias)
			continue
		}
		sb.WriteByte('(')
		for j, s := range w {
			if j > 0 {
				sb.WriteByte(',')
			}
			if s == beforeStart {
				sb.WriteByte('-')
			} else {
				sb.WriteString(e.a.states[s].alias)
			}
		}
		sb.WriteByte(')')
	}
	sb.WriteByte('}')

	marking := Unmarked
	if e.marked(t) {
		marking = Marked
	}
	return NewState(sb.String(), marking)
}

// marked reports whether some current state of the estimate is marked.
func (e *estimator) marked(t []int) bool {
	for _, w := range e.windows(t) {
		if e.a.states[w[len(w)-1]].IsMarked() {
			return true
		}
	}
	return false
}

func (e *estimator) automaton(name string, sp *stateSpace) *Automaton {
	states := make([]State, sp.size())
	for i, t := range sp.tuples {
		states[i] = e.label(t)
	}
	return build(name, states, e.events(), sp.edges)
}

// Estimator is an observer automaton whose states stand for sets of
// states of the observed automaton.
type Estimator struct {
	*Automaton
	members [][]State
}

// Members returns the observed states an estimator state stands for.
func (o *Estimator) Members(s State) []State {
	i, ok := o.stateIx[s]
	if !ok {
		return nil
	}
	return slices.Clone(o.members[i])
}

// Observer builds the observer of a for the given unobservable events:
// the deterministic automaton over the observable events whose state
// after an observation is the set of states a may be in.
func Observer(a *Automaton, unobservable []Event, opts ...Option) *Estimator {
	cfg := newConfig(opts)
	e := newEstimator(a, unobservable, 1, false)
	sp := explore(cfg, e.root([][]int{{0}}), e.expand)
	obs := &Estimator{Automaton: e.automaton("Obs("+a.name+")", sp), members: make([][]State, sp.size())}
	for i, t := range sp.tuples {
		for _, s := range t {
			obs.members[i] = append(obs.members[i], a.states[s])
		}
	}
	return obs
}

// Projection erases the given events from a and determinizes the result.
// A state of the projection is marked when one of its members is.
func (a *Automaton) Projection(erased []Event, opts ...Option) *Automaton {
	return Observer(a, erased, opts...).Rename("P(" + a.name + ")")
}
