package des

import (
	"slices"
	"strings"

	u "github.com/araddon/gou"
)

// CompositeSeparator joins component aliases in composite state names.
const CompositeSeparator = "|"

// owner is a component taking part in an event, with the event's index
// in that component's own table.
type owner struct {
	comp, local int
}

// composer drives the synchronous exploration of a list of automata.
// Every event of the composite alphabet lists the components that own
// it; a composite move on the event exists when all owners can move,
// and the owners move together while everyone else stays put.
type composer struct {
	parts  []*Automaton
	events []Event
	owners [][]owner
}

// newParallelComposer synchronizes shared events and interleaves private
// ones. The composite alphabet is the union of the operand alphabets.
func newParallelComposer(parts []*Automaton) *composer {
	set := make(map[Event]struct{})
	for _, p := range parts {
		for _, e := range p.events {
			set[e] = struct{}{}
		}
	}
	return newComposer(parts, sortedEvents(set))
}

// newProductComposer only keeps the events every operand owns.
func newProductComposer(parts []*Automaton) *composer {
	var events []Event
	for _, e := range parts[0].events {
		shared := true
		for _, p := range parts[1:] {
			if !p.HasEvent(e) {
				shared = false
				break
			}
		}
		if shared {
			events = append(events, e)
		}
	}
	return newComposer(parts, events)
}

func newComposer(parts []*Automaton, events []Event) *composer {
	c := &composer{parts: parts, events: events, owners: make([][]owner, len(events))}
	for ei, e := range events {
		for pi, p := range parts {
			if li, ok := p.eventIx[e]; ok {
				c.owners[ei] = append(c.owners[ei], owner{comp: pi, local: li})
			}
		}
	}
	return c
}

func (c *composer) root() []int {
	return make([]int, len(c.parts))
}

func (c *composer) expand(t []int) []successor {
	var out []successor
	for ev, owners := range c.owners {
		if len(owners) == 0 {
			continue
		}
		if target, ok := c.move(t, owners); ok {
			out = append(out, successor{event: ev, target: target})
		}
	}
	return out
}

// move returns the tuple reached when all owners move, or false when one
// of them has no transition.
func (c *composer) move(t []int, owners []owner) ([]int, bool) {
	var target []int
	for _, o := range owners {
		d := c.parts[o.comp].next(t[o.comp], o.local)
		if d < 0 {
			return nil, false
		}
		if target == nil {
			target = slices.Clone(t)
		}
		target[o.comp] = d
	}
	return target, true
}

// enabledBy reports whether the event can fire in t considering only the
// components selected by within.
func (c *composer) enabledBy(t []int, ev int, within func(comp int) bool) bool {
	owned := false
	for _, o := range c.owners[ev] {
		if !within(o.comp) {
			continue
		}
		owned = true
		if c.parts[o.comp].next(t[o.comp], o.local) < 0 {
			return false
		}
	}
	return owned
}

// label names a composite state: aliases joined in operand order,
// marked iff every component is marked.
func (c *composer) label(t []int) State {
	var sb strings.Builder
	marking := Marked
	for i, si := range t {
		s := c.parts[i].states[si]
		if i > 0 {
			sb.WriteString(CompositeSeparator)
		}
		sb.WriteString(s.alias)
		if !s.IsMarked() {
			marking = Unmarked
		}
	}
	return NewState(sb.String(), marking)
}

func (c *composer) name(sep string) string {
	names := make([]string, len(c.parts))
	for i, p := range c.parts {
		names[i] = p.name
	}
	return strings.Join(names, sep)
}

// automaton materializes an explored state space.
func (c *composer) automaton(name string, sp *stateSpace) *Automaton {
	states := make([]State, sp.size())
	for i, t := range sp.tuples {
		states[i] = c.label(t)
	}
	return build(name, states, c.events, sp.edges)
}

// ParallelComposition computes the synchronous composition of automata.
// Shared events fire only when every automaton owning them can fire
// them; private events interleave. Only composite states reachable from
// the composite initial state are built.
func ParallelComposition(automata []*Automaton, opts ...Option) (*Automaton, error) {
	if len(automata) == 0 {
		return nil, ErrNoAutomata
	}
	cfg := newConfig(opts)
	if len(automata) == 1 {
		return automata[0], nil
	}
	c := newParallelComposer(automata)
	u.Debugf("parallel composition of %d automata over %d events", len(automata), len(c.events))
	sp := explore(cfg, c.root(), c.expand)
	return c.automaton(c.name("||"), sp), nil
}

// ParallelCompositionWith composes a with the given automata.
func (a *Automaton) ParallelCompositionWith(others []*Automaton, opts ...Option) *Automaton {
	res, _ := ParallelComposition(append([]*Automaton{a}, others...), opts...)
	return res
}

// Product computes the strict synchronous product: a composite move
// exists only on events owned by every operand, with all operands moving
// together. Events private to any operand never occur, and the product
// alphabet is the intersection of the operand alphabets.
func Product(automata []*Automaton, opts ...Option) (*Automaton, error) {
	if len(automata) == 0 {
		return nil, ErrNoAutomata
	}
	cfg := newConfig(opts)
	if len(automata) == 1 {
		return automata[0], nil
	}
	c := newProductComposer(automata)
	sp := explore(cfg, c.root(), c.expand)
	return c.automaton(c.name("&"), sp), nil
}

// ProductWith computes the product of a with the given automata.
func (a *Automaton) ProductWith(others []*Automaton, opts ...Option) *Automaton {
	res, _ := Product(append([]*Automaton{a}, others...), opts...)
	return res
}
