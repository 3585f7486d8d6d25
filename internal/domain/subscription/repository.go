package subscription

import "context"

// SubscriptionRepository is the keyed store that owns all subscription records.
// It performs no legality checks.
type SubscriptionRepository interface {
	// Create stores a new record and fails with ErrAlreadyExists instead of overwriting.
	Create(ctx context.Context, s *Subscription) error
	// FindByID returns nil, nil when no record exists for id.
	FindByID(ctx context.Context, id string) (*Subscription, error)
	// Put overwrites the record stored under s.ID().
	Put(ctx context.Context, s *Subscription) error
}
