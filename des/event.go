package des

import "cmp"

// Controllability tells whether a supervisor may disable an event.
type Controllability uint8

const (
	Controllable Controllability = iota
	Uncontrollable
)

func (c Controllability) String() string {
	if c == Uncontrollable {
		return "uncontrollable"
	}
	return "controllable"
}

type eventKind uint8

const (
	symbolEvent eventKind = iota
	emptyEvent
	epsilonEvent
)

// Event is an immutable event symbol. Events are compared by value:
// alias, controllability and kind.
type Event struct {
	alias string
	ctrl  Controllability
	kind  eventKind
}

var (
	// Empty is the empty-language symbol. It never appears in an alphabet.
	Empty = Event{kind: emptyEvent}
	// Epsilon is the empty-word symbol. It never appears in an alphabet.
	Epsilon = Event{kind: epsilonEvent}
)

// NewEvent creates an event.
func NewEvent(alias string, c Controllability) Event {
	return Event{alias: alias, ctrl: c}
}

func (e Event) Alias() string                    { return e.alias }
func (e Event) Controllability() Controllability { return e.ctrl }
func (e Event) IsControllable() bool             { return e.ctrl == Controllable }
func (e Event) IsEmpty() bool                    { return e.kind == emptyEvent }
func (e Event) IsEpsilon() bool                  { return e.kind == epsilonEvent }

func (e Event) String() string {
	switch e.kind {
	case emptyEvent:
		return "∅"
	case epsilonEvent:
		return "ε"
	default:
		return e.alias
	}
}

func compareEvents(a, b Event) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.alias, b.alias); c != 0 {
		return c
	}
	return cmp.Compare(a.ctrl, b.ctrl)
}
