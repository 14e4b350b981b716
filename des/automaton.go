package des

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rfielding/des-sct/graph"
)

var (
	ErrNoAutomata            = errors.New("des: no automata given")
	ErrNondeterministic      = errors.New("des: nondeterministic transition")
	ErrDisjointSpecification = errors.New("des: specification shares no event with any plant")
	ErrObservableFault       = errors.New("des: fault event is observable")
	ErrNegativeSteps         = errors.New("des: negative number of steps")
)

// edge is a transition in index form: event index into Automaton.events,
// destination index into Automaton.states.
type edge struct {
	event, dst int
}

// Automaton is an immutable deterministic finite automaton.
//
// States are kept in an arena indexed by integers; states[0] is always
// the initial state. Each state's outgoing edges are sorted by event
// index, and events are sorted by (alias, controllability), so two
// automata built from the same data are laid out identically.
//
// Determinism (at most one transition per origin and event) is a
// precondition of every operation and is not checked on construction;
// call Validate to assert it.
type Automaton struct {
	name    string
	states  []State
	events  []Event
	adj     [][]edge
	stateIx map[State]int
	eventIx map[Event]int
}

// BuildOption declares states or events that do not appear in any
// transition.
type BuildOption func(*buildSpec)

type buildSpec struct {
	states []State
	events []Event
}

// WithStates declares additional, possibly isolated, states.
func WithStates(states ...State) BuildOption {
	return func(b *buildSpec) { b.states = append(b.states, states...) }
}

// WithEvents declares additional alphabet events that label no transition.
func WithEvents(events ...Event) BuildOption {
	return func(b *buildSpec) { b.events = append(b.events, events...) }
}

// New builds an automaton from its transitions and initial state. The
// initial state may be isolated. Repeated identical transitions collapse.
func New(name string, initial State, transitions []Transition, opts ...BuildOption) *Automaton {
	var spec buildSpec
	for _, opt := range opts {
		opt(&spec)
	}

	states := []State{initial}
	stateIx := map[State]int{initial: 0}
	addState := func(s State) int {
		if i, ok := stateIx[s]; ok {
			return i
		}
		stateIx[s] = len(states)
		states = append(states, s)
		return len(states) - 1
	}

	eventSet := make(map[Event]struct{})
	for _, t := range transitions {
		addState(t.Origin)
		addState(t.Destination)
		eventSet[t.Trigger] = struct{}{}
	}
	for _, s := range spec.states {
		addState(s)
	}
	for _, e := range spec.events {
		eventSet[e] = struct{}{}
	}
	events := sortedEvents(eventSet)
	eventIx := indexEvents(events)

	adj := make([][]edge, len(states))
	for _, t := range transitions {
		o := stateIx[t.Origin]
		adj[o] = append(adj[o], edge{event: eventIx[t.Trigger], dst: stateIx[t.Destination]})
	}
	for i := range adj {
		slices.SortFunc(adj[i], compareEdges)
		adj[i] = slices.Compact(adj[i])
	}

	return &Automaton{
		name:    name,
		states:  states,
		events:  events,
		adj:     adj,
		stateIx: stateIx,
		eventIx: eventIx,
	}
}

// build assembles an automaton from arena data produced by an algorithm.
// events must be sorted and every adjacency list sorted by event.
func build(name string, states []State, events []Event, adj [][]edge) *Automaton {
	stateIx := make(map[State]int, len(states))
	for i, s := range states {
		// derived names can clash ("0|1","2" vs "0","1|2"); later
		// states are primed until unique
		for {
			if _, dup := stateIx[s]; !dup {
				break
			}
			s = NewState(s.alias+"'", s.marking)
		}
		states[i] = s
		stateIx[s] = i
	}
	return &Automaton{
		name:    name,
		states:  states,
		events:  events,
		adj:     adj,
		stateIx: stateIx,
		eventIx: indexEvents(events),
	}
}

func sortedEvents(set map[Event]struct{}) []Event {
	events := make([]Event, 0, len(set))
	for e := range set {
		events = append(events, e)
	}
	slices.SortFunc(events, compareEvents)
	return events
}

func indexEvents(events []Event) map[Event]int {
	ix := make(map[Event]int, len(events))
	for i, e := range events {
		ix[e] = i
	}
	return ix
}

func compareEdges(a, b edge) int {
	if a.event != b.event {
		return a.event - b.event
	}
	return a.dst - b.dst
}

func (a *Automaton) Name() string        { return a.name }
func (a *Automaton) InitialState() State { return a.states[0] }
func (a *Automaton) Size() int           { return len(a.states) }

// States returns the states, initial state first.
func (a *Automaton) States() []State { return slices.Clone(a.states) }

// Events returns the alphabet in (alias, controllability) order.
func (a *Automaton) Events() []Event { return slices.Clone(a.events) }

// Transitions returns every transition, grouped by origin in state order.
func (a *Automaton) Transitions() []Transition {
	out := make([]Transition, 0, a.TransitionCount())
	for i, edges := range a.adj {
		for _, e := range edges {
			out = append(out, Transition{
				Origin:      a.states[i],
				Trigger:     a.events[e.event],
				Destination: a.states[e.dst],
			})
		}
	}
	return out
}

func (a *Automaton) TransitionCount() int {
	n := 0
	for _, edges := range a.adj {
		n += len(edges)
	}
	return n
}

func (a *Automaton) MarkedStates() []State {
	var out []State
	for _, s := range a.states {
		if s.IsMarked() {
			out = append(out, s)
		}
	}
	return out
}

func (a *Automaton) UncontrollableEvents() []Event {
	var out []Event
	for _, e := range a.events {
		if !e.IsControllable() {
			out = append(out, e)
		}
	}
	return out
}

func (a *Automaton) ControllableEvents() []Event {
	var out []Event
	for _, e := range a.events {
		if e.IsControllable() {
			out = append(out, e)
		}
	}
	return out
}

// HasState reports whether s is one of the automaton's states.
func (a *Automaton) HasState(s State) bool {
	_, ok := a.stateIx[s]
	return ok
}

// HasEvent reports whether e belongs to the alphabet.
func (a *Automaton) HasEvent(e Event) bool {
	_, ok := a.eventIx[e]
	return ok
}

// Step returns the destination of the transition leaving s on e.
func (a *Automaton) Step(s State, e Event) (State, bool) {
	si, ok := a.stateIx[s]
	if !ok {
		return State{}, false
	}
	ei, ok := a.eventIx[e]
	if !ok {
		return State{}, false
	}
	d := a.next(si, ei)
	if d < 0 {
		return State{}, false
	}
	return a.states[d], true
}

// Enabled returns the events with a transition leaving s.
func (a *Automaton) Enabled(s State) []Event {
	si, ok := a.stateIx[s]
	if !ok {
		return nil
	}
	out := make([]Event, 0, len(a.adj[si]))
	for _, e := range a.adj[si] {
		out = append(out, a.events[e.event])
	}
	return out
}

// next returns the destination index for (state, event) or -1.
func (a *Automaton) next(s, ev int) int {
	edges := a.adj[s]
	i, found := slices.BinarySearchFunc(edges, ev, func(e edge, target int) int {
		return e.event - target
	})
	if !found {
		return -1
	}
	return edges[i].dst
}

// Validate checks the structural invariants, in particular determinism.
func (a *Automaton) Validate() error {
	for i, edges := range a.adj {
		for j := 1; j < len(edges); j++ {
			if edges[j].event == edges[j-1].event {
				return fmt.Errorf("%w: %s has two transitions on %s in %s",
					ErrNondeterministic, a.states[i], a.events[edges[j].event], a.name)
			}
		}
	}
	return nil
}

// Rename returns a copy with a different name; states and transitions
// are shared.
func (a *Automaton) Rename(name string) *Automaton {
	c := *a
	c.name = name
	return &c
}

// PrefixClosure returns the same automaton with every state marked.
func (a *Automaton) PrefixClosure() *Automaton {
	states := make([]State, len(a.states))
	for i, s := range a.states {
		states[i] = s.ToMarked()
	}
	return build(a.name, states, a.events, a.adj)
}

// SimplifyStatesName renames states to their arena index, keeping the
// marking. The initial state becomes "0".
func (a *Automaton) SimplifyStatesName() *Automaton {
	states := make([]State, len(a.states))
	for i, s := range a.states {
		states[i] = NewState(fmt.Sprint(i), s.Marking())
	}
	return build(a.name, states, a.events, a.adj)
}

func (a *Automaton) markedSet() graph.Set {
	marked := graph.NewSet()
	for i, s := range a.states {
		if s.IsMarked() {
			marked.Add(i)
		}
	}
	return marked
}

// stateGraph returns the successor relation over state indices.
func (a *Automaton) stateGraph() *graph.Graph {
	g := graph.New(len(a.states))
	for i, edges := range a.adj {
		for _, e := range edges {
			g.AddEdge(i, e.dst)
		}
	}
	return g
}

// eventIndices maps a list of events to indices in a, skipping unknown ones.
func (a *Automaton) eventIndices(events []Event) []int {
	var out []int
	for _, e := range events {
		if i, ok := a.eventIx[e]; ok {
			out = append(out, i)
		}
	}
	return out
}

func (a *Automaton) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Automaton %s:\n", a.name)
	fmt.Fprintf(&sb, "  Initial State: %s\n", a.InitialState())
	fmt.Fprintf(&sb, "  States: %v\n", a.states)
	fmt.Fprintf(&sb, "  Marked: %v\n", a.MarkedStates())
	fmt.Fprintf(&sb, "  Events: %v\n", a.events)
	sb.WriteString("  Transitions:\n")
	for _, t := range a.Transitions() {
		fmt.Fprintf(&sb, "    %s -%s-> %s\n", t.Origin, t.Trigger, t.Destination)
	}
	return sb.String()
}
