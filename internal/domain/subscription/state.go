package subscription

import "fmt"

// State represents the lifecycle state of a subscription.
type State string

const (
	StateActive         State = "active"
	StatePendingRenewal State = "pending_renewal"
	StatePaused         State = "paused"
	StateFailed         State = "failed"
	StateCanceled       State = "canceled"
)

// AllStates returns every state in declaration order.
func AllStates() []State {
	return []State{StateActive, StatePendingRenewal, StatePaused, StateFailed, StateCanceled}
}

// ParseState converts a raw string into a State.
func ParseState(raw string) (State, error) {
	s := State(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown subscription state: %q", raw)
	}
	return s, nil
}

// IsValid reports whether s is one of the five known states.
func (s State) IsValid() bool {
	switch s {
	case StateActive, StatePendingRenewal, StatePaused, StateFailed, StateCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s State) IsTerminal() bool {
	return s == StateCanceled
}

func (s State) String() string { return string(s) }
