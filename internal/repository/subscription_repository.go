package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
	"gorm.io/gorm"
)

// SubscriptionModel is the GORM model for the subscriptions table.
// Timestamps come from the engine's clock, so GORM must not fill them in.
type SubscriptionModel struct {
	ID        string    `gorm:"type:varchar(255);primaryKey"`
	State     string    `gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
}

// TableName sets the table name.
func (SubscriptionModel) TableName() string { return "subscriptions" }

// GormSubscriptionRepository implements SubscriptionRepository using GORM.
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository.
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// Create inserts a new subscription. The primary key rejects duplicates.
func (r *GormSubscriptionRepository) Create(ctx context.Context, s *subDomain.Subscription) error {
	model := toSubModel(s)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return subDomain.NewAlreadyExistsError(s.ID())
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// FindByID returns a subscription by ID, or nil if none exists.
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id string) (*subDomain.Subscription, error) {
	var model SubscriptionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return toSubDomain(&model)
}

// Put overwrites the stored subscription.
func (r *GormSubscriptionRepository) Put(ctx context.Context, s *subDomain.Subscription) error {
	model := toSubModel(s)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

func toSubModel(s *subDomain.Subscription) SubscriptionModel {
	return SubscriptionModel{
		ID:        s.ID(),
		State:     string(s.State()),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func toSubDomain(m *SubscriptionModel) (*subDomain.Subscription, error) {
	state, err := subDomain.ParseState(m.State)
	if err != nil {
		return nil, fmt.Errorf("corrupt subscription %s: %w", m.ID, err)
	}
	return subDomain.Reconstruct(m.ID, state, m.CreatedAt.UTC(), m.UpdatedAt.UTC()), nil
}
