package des

import "fmt"

// Transition is an (origin, trigger, destination) triple. It is
// comparable and can be used as a map key.
type Transition struct {
	Origin      State
	Trigger     Event
	Destination State
}

// NewTransition creates a transition.
func NewTransition(origin State, trigger Event, destination State) Transition {
	return Transition{Origin: origin, Trigger: trigger, Destination: destination}
}

func (t Transition) String() string {
	return fmt.Sprintf("(%s --%s-> %s)", t.Origin, t.Trigger, t.Destination)
}
