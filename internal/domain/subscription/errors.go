package subscription

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists     = errors.New("subscription already exists")
	ErrNotFound          = errors.New("subscription not found")
	ErrTerminalState     = errors.New("cannot transition from canceled state")
	ErrNoOpTransition    = errors.New("subscription already in target state")
	ErrIllegalTransition = errors.New("invalid state transition")
	ErrInvalidID         = errors.New("invalid subscription id")
)

// TransitionError describes a rejected request against a single subscription.
type TransitionError struct {
	Err            error
	SubscriptionID string
	Operation      Operation
	From           State
	To             State
}

func (e *TransitionError) Error() string {
	switch {
	case e.From != "" && e.To != "":
		return fmt.Sprintf("%s: %s (%s -> %s via %s)", e.Err, e.SubscriptionID, e.From, e.To, e.Operation)
	case e.SubscriptionID != "":
		return fmt.Sprintf("%s: %s", e.Err, e.SubscriptionID)
	}
	return e.Err.Error()
}

func (e *TransitionError) Unwrap() error { return e.Err }

// NewNotFoundError returns a not-found error for id.
func NewNotFoundError(id string) error {
	return &TransitionError{Err: ErrNotFound, SubscriptionID: id}
}

// NewAlreadyExistsError returns a duplicate-creation error for id.
func NewAlreadyExistsError(id string) error {
	return &TransitionError{Err: ErrAlreadyExists, SubscriptionID: id}
}

// ValidateID checks that id is usable as a storage key and as a single URL path segment.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > MaxIDLength || strings.Contains(id, "/") {
		return &TransitionError{Err: ErrInvalidID, SubscriptionID: id}
	}
	return nil
}
