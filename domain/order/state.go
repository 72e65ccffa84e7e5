package order

// State order lifecycle state
type State string

const (
	StateCreated  State = "created"
	StateApproved State = "approved"
	StateShipped  State = "shipped"
)

// IsValid reports membership in the closed state set
func (s State) IsValid() bool {
	switch s {
	case StateCreated, StateApproved, StateShipped:
		return true
	}
	return false
}

// Transition named lifecycle move
type Transition string

const (
	TransitionApprove Transition = "approve"
	TransitionShip    Transition = "ship"
)

type edge struct {
	from State
	to   State
}

// shipped has no outgoing edge
var edges = map[Transition]edge{
	TransitionApprove: {from: StateCreated, to: StateApproved},
	TransitionShip:    {from: StateApproved, to: StateShipped},
}

// From state the transition requires
func (t Transition) From() State { return edges[t].from }

// To state the transition produces
func (t Transition) To() State { return edges[t].to }
