package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/metrics"
	"go.uber.org/zap"
)

// EventPublisher delivers state change events to external observers.
type EventPublisher interface {
	Publish(ctx context.Context, event subDomain.StateChangeEvent) error
}

// SubscriptionDTO is the API response for a subscription.
type SubscriptionDTO struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSubscriptionRequest holds data to create a subscription.
type CreateSubscriptionRequest struct {
	ID string `json:"id" binding:"required"`
}

// SubscriptionService validates and applies subscription state transitions.
// It keeps no state between calls beyond the per-id locks that serialize them.
type SubscriptionService struct {
	repo      subDomain.SubscriptionRepository
	clock     Clock
	publisher EventPublisher
	metrics   *metrics.Metrics
	locks     *keyLocks
	logger    *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService. m may be nil.
func NewSubscriptionService(
	repo subDomain.SubscriptionRepository,
	clock Clock,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		clock:     clock,
		publisher: publisher,
		metrics:   m,
		locks:     newKeyLocks(),
		logger:    logger,
	}
}

// Transitions returns the legality table.
func (s *SubscriptionService) Transitions() []subDomain.Rule {
	return subDomain.Rules()
}

// CreateSubscription stores a new active subscription under id and announces it.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, id string) (*SubscriptionDTO, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sub, event, err := subDomain.NewSubscription(id, s.clock.Now())
	if err != nil {
		s.reject(subDomain.OpCreate, id, err)
		return nil, err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, subDomain.ErrAlreadyExists) {
			s.reject(subDomain.OpCreate, id, err)
			return nil, err
		}
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.publish(ctx, event)
	s.metrics.RecordTransition(string(event.Operation), string(event.OldState), string(event.NewState))
	s.logger.Info("subscription created", zap.String("subscription_id", id))

	return toSubDTO(sub), nil
}

// GetSubscription returns the subscription stored under id, or nil if there is none.
func (s *SubscriptionService) GetSubscription(ctx context.Context, id string) (*SubscriptionDTO, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	return toSubDTO(sub), nil
}

// TransitionToPendingRenewal starts a renewal: Active -> PendingRenewal.
func (s *SubscriptionService) TransitionToPendingRenewal(ctx context.Context, id string) (*SubscriptionDTO, error) {
	return s.transition(ctx, id, subDomain.OpStartRenewal)
}

// TransitionToPaused pauses an Active or PendingRenewal subscription.
func (s *SubscriptionService) TransitionToPaused(ctx context.Context, id string) (*SubscriptionDTO, error) {
	return s.transition(ctx, id, subDomain.OpPause)
}

// TransitionToFailed marks a pending renewal as failed.
func (s *SubscriptionService) TransitionToFailed(ctx context.Context, id string) (*SubscriptionDTO, error) {
	return s.transition(ctx, id, subDomain.OpFail)
}

// TransitionToCanceled cancels any non-canceled subscription. Canceled is terminal.
func (s *SubscriptionService) TransitionToCanceled(ctx context.Context, id string) (*SubscriptionDTO, error) {
	return s.transition(ctx, id, subDomain.OpCancel)
}

// ResumeFromPaused reactivates a paused subscription.
func (s *SubscriptionService) ResumeFromPaused(ctx context.Context, id string) (*SubscriptionDTO, error) {
	return s.transition(ctx, id, subDomain.OpResume)
}

// RetryFromFailed puts a failed renewal back into PendingRenewal.
func (s *SubscriptionService) RetryFromFailed(ctx context.Context, id string) (*SubscriptionDTO, error) {
	return s.transition(ctx, id, subDomain.OpRetry)
}

// CompleteRenewal finishes a renewal: PendingRenewal -> Active.
func (s *SubscriptionService) CompleteRenewal(ctx context.Context, id string) (*SubscriptionDTO, error) {
	return s.transition(ctx, id, subDomain.OpCompleteRenewal)
}

// transition runs one read-validate-write cycle. Nothing is written or
// published unless every check passes.
func (s *SubscriptionService) transition(ctx context.Context, id string, op subDomain.Operation) (*SubscriptionDTO, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		err := subDomain.NewNotFoundError(id)
		s.reject(op, id, err)
		return nil, err
	}

	event, err := sub.Apply(op, s.clock.Now())
	if err != nil {
		s.reject(op, id, err)
		return nil, err
	}

	if err := s.repo.Put(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	s.publish(ctx, event)
	s.metrics.RecordTransition(string(op), string(event.OldState), string(event.NewState))
	s.logger.Info("subscription state changed",
		zap.String("subscription_id", id),
		zap.String("operation", string(op)),
		zap.String("from", string(event.OldState)),
		zap.String("to", string(event.NewState)),
	)

	return toSubDTO(sub), nil
}

// publish hands the event to the sink. The record is already persisted, so a
// failed delivery is logged and counted rather than returned.
func (s *SubscriptionService) publish(ctx context.Context, event subDomain.StateChangeEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.RecordPublishFailure()
		s.logger.Error("failed to publish state change event",
			zap.String("subscription_id", event.SubscriptionID),
			zap.String("operation", string(event.Operation)),
			zap.Error(err),
		)
	}
}

func (s *SubscriptionService) reject(op subDomain.Operation, id string, err error) {
	reason := rejectionReason(err)
	s.metrics.RecordRejection(string(op), reason)
	s.logger.Warn("subscription request rejected",
		zap.String("subscription_id", id),
		zap.String("operation", string(op)),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, subDomain.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, subDomain.ErrNotFound):
		return "not_found"
	case errors.Is(err, subDomain.ErrTerminalState):
		return "terminal_state"
	case errors.Is(err, subDomain.ErrNoOpTransition):
		return "no_op_transition"
	case errors.Is(err, subDomain.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, subDomain.ErrInvalidID):
		return "invalid_id"
	}
	return "unknown"
}

func toSubDTO(s *subDomain.Subscription) *SubscriptionDTO {
	return &SubscriptionDTO{
		ID:        s.ID(),
		State:     string(s.State()),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}
