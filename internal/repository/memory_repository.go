package repository

import (
	"context"
	"sync"

	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
)

// MemorySubscriptionRepository keeps subscriptions in process memory.
// Records are stored by value so callers never share a pointer with the store.
type MemorySubscriptionRepository struct {
	mu   sync.RWMutex
	data map[string]SubscriptionModel
}

// NewMemorySubscriptionRepository creates an empty in-memory repository.
func NewMemorySubscriptionRepository() *MemorySubscriptionRepository {
	return &MemorySubscriptionRepository{data: make(map[string]SubscriptionModel)}
}

// Create stores s unless its id is already taken.
func (r *MemorySubscriptionRepository) Create(_ context.Context, s *subDomain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[s.ID()]; exists {
		return subDomain.NewAlreadyExistsError(s.ID())
	}
	r.data[s.ID()] = toSubModel(s)
	return nil
}

// FindByID returns a copy of the stored subscription, or nil if none exists.
func (r *MemorySubscriptionRepository) FindByID(_ context.Context, id string) (*subDomain.Subscription, error) {
	r.mu.RLock()
	model, exists := r.data[id]
	r.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	return toSubDomain(&model)
}

// Put overwrites the stored subscription.
func (r *MemorySubscriptionRepository) Put(_ context.Context, s *subDomain.Subscription) error {
	r.mu.Lock()
	r.data[s.ID()] = toSubModel(s)
	r.mu.Unlock()
	return nil
}

// Len returns the number of stored subscriptions.
func (r *MemorySubscriptionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
