package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/application"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Billing event types understood by the consumer.
const (
	TopicBillingEvents = "billing.events"

	BillingRenewalDue          = "billing.renewal.due"
	BillingPaymentSucceeded    = "billing.payment.succeeded"
	BillingPaymentFailed       = "billing.payment.failed"
	BillingPaymentRetrying     = "billing.payment.retrying"
	BillingSubscriptionPaused  = "billing.subscription.paused"
	BillingSubscriptionResumed = "billing.subscription.resumed"
	BillingSubscriptionCancel  = "billing.subscription.canceled"
)

// BillingEvent is the payload shared by all billing events.
type BillingEvent struct {
	SubscriptionID string `json:"subscription_id"`
}

type transitionFunc func(ctx context.Context, id string) (*application.SubscriptionDTO, error)

// BillingEventConsumer turns billing events into subscription transitions.
type BillingEventConsumer struct {
	consumer *kafka.Consumer
	routes   map[string]transitionFunc
	logger   *zap.Logger
}

// NewBillingEventConsumer creates a consumer for billing events.
func NewBillingEventConsumer(
	brokers []string,
	groupID, topic string,
	service *application.SubscriptionService,
	logger *zap.Logger,
) *BillingEventConsumer {
	if topic == "" {
		topic = TopicBillingEvents
	}
	c := newBillingRouter(service, logger)
	c.consumer = kafka.NewConsumer(brokers, groupID, topic, logger)
	return c
}

func newBillingRouter(service *application.SubscriptionService, logger *zap.Logger) *BillingEventConsumer {
	return &BillingEventConsumer{
		routes: map[string]transitionFunc{
			BillingRenewalDue:          service.TransitionToPendingRenewal,
			BillingPaymentSucceeded:    service.CompleteRenewal,
			BillingPaymentFailed:       service.TransitionToFailed,
			BillingPaymentRetrying:     service.RetryFromFailed,
			BillingSubscriptionPaused:  service.TransitionToPaused,
			BillingSubscriptionResumed: service.ResumeFromPaused,
			BillingSubscriptionCancel:  service.TransitionToCanceled,
		},
		logger: logger,
	}
}

// Start begins consuming billing events. It blocks until the context is cancelled.
func (c *BillingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// handleMessage routes one message. Rejected transitions are acknowledged:
// redelivering them would be rejected the same way. Other errors are returned
// and the consumer retries the message before reading past it.
func (c *BillingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from billing topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil
	}

	route, ok := c.lookup(cloudEvent.Type)
	if !ok {
		c.logger.Debug("ignoring unhandled billing event type", zap.String("type", cloudEvent.Type))
		return nil
	}

	var event BillingEvent
	if err := cloudEvent.ParseData(&event); err != nil {
		c.logger.Error("failed to parse billing event data", zap.String("type", cloudEvent.Type), zap.Error(err))
		return nil
	}
	if event.SubscriptionID == "" {
		event.SubscriptionID = cloudEvent.Subject
	}

	c.logger.Info("received billing event",
		zap.String("type", cloudEvent.Type),
		zap.String("id", cloudEvent.ID),
		zap.String("subscription_id", event.SubscriptionID),
	)

	if _, err := route(ctx, event.SubscriptionID); err != nil {
		if isDomainRejection(err) {
			c.logger.Warn("billing event rejected by state machine",
				zap.String("type", cloudEvent.Type),
				zap.String("subscription_id", event.SubscriptionID),
				zap.Error(err),
			)
			return nil
		}
		return fmt.Errorf("failed to handle %s: %w", cloudEvent.Type, err)
	}
	return nil
}

// lookup matches event types case-insensitively; route keys are lower case.
func (c *BillingEventConsumer) lookup(eventType string) (transitionFunc, bool) {
	fn, ok := c.routes[strings.ToLower(eventType)]
	return fn, ok
}

// Close closes the underlying Kafka consumer.
func (c *BillingEventConsumer) Close() error {
	return c.consumer.Close()
}

func isDomainRejection(err error) bool {
	for _, target := range []error{
		subscription.ErrNotFound,
		subscription.ErrTerminalState,
		subscription.ErrNoOpTransition,
		subscription.ErrIllegalTransition,
		subscription.ErrInvalidID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
