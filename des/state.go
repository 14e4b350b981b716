package des

// Marking tells whether a state denotes a completed task.
type Marking uint8

const (
	Unmarked Marking = iota
	Marked
)

func (m Marking) String() string {
	if m == Marked {
		return "marked"
	}
	return "unmarked"
}

// State is an immutable state symbol compared by alias and marking.
type State struct {
	alias   string
	marking Marking
}

// NewState creates a state.
func NewState(alias string, m Marking) State {
	return State{alias: alias, marking: m}
}

func (s State) Alias() string    { return s.alias }
func (s State) Marking() Marking { return s.marking }
func (s State) IsMarked() bool   { return s.marking == Marked }
func (s State) String() string   { return s.alias }

// ToMarked returns the marked variant of s.
func (s State) ToMarked() State { return State{alias: s.alias, marking: Marked} }

// ToUnmarked returns the unmarked variant of s.
func (s State) ToUnmarked() State { return State{alias: s.alias, marking: Unmarked} }
