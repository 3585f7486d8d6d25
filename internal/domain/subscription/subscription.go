package subscription

import "time"

// MaxIDLength bounds subscription identifiers, which double as storage keys.
const MaxIDLength = 255

// Subscription is the aggregate root for a subscription lifecycle.
type Subscription struct {
	id        string
	state     State
	createdAt time.Time
	updatedAt time.Time
}

// NewSubscription creates an active subscription and the initial event announcing it.
func NewSubscription(id string, now time.Time) (*Subscription, StateChangeEvent, error) {
	if err := ValidateID(id); err != nil {
		return nil, StateChangeEvent{}, err
	}

	s := &Subscription{
		id:        id,
		state:     StateActive,
		createdAt: now,
		updatedAt: now,
	}
	event := StateChangeEvent{
		SubscriptionID: id,
		Operation:      OpCreate,
		OldState:       StateActive,
		NewState:       StateActive,
		Timestamp:      now,
	}
	return s, event, nil
}

// Reconstruct rebuilds a Subscription from persistence.
func Reconstruct(id string, state State, createdAt, updatedAt time.Time) *Subscription {
	return &Subscription{id: id, state: state, createdAt: createdAt, updatedAt: updatedAt}
}

// Check reports why op cannot be applied right now, or nil if it can.
func (s *Subscription) Check(op Operation) error {
	target := op.Target()
	base := TransitionError{SubscriptionID: s.id, Operation: op, From: s.state, To: target}

	switch {
	case !op.IsValid():
		base.Err = ErrIllegalTransition
	case s.state.IsTerminal():
		base.Err = ErrTerminalState
	case s.state == target:
		base.Err = ErrNoOpTransition
	case !op.Allows(s.state):
		base.Err = ErrIllegalTransition
	default:
		return nil
	}
	return &base
}

// Apply moves the subscription along op and returns the resulting event.
// On error the subscription is left untouched.
func (s *Subscription) Apply(op Operation, now time.Time) (StateChangeEvent, error) {
	if err := s.Check(op); err != nil {
		return StateChangeEvent{}, err
	}

	// updatedAt never moves backwards, even if the clock does.
	if now.Before(s.updatedAt) {
		now = s.updatedAt
	}

	old := s.state
	s.state = op.Target()
	s.updatedAt = now

	return StateChangeEvent{
		SubscriptionID: s.id,
		Operation:      op,
		OldState:       old,
		NewState:       s.state,
		Timestamp:      now,
	}, nil
}

// Getters.
func (s *Subscription) ID() string           { return s.id }
func (s *Subscription) State() State         { return s.state }
func (s *Subscription) CreatedAt() time.Time { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time { return s.updatedAt }
