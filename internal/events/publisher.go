package events

import (
	"context"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/kafka"
	"go.uber.org/zap"
)

const (
	// ServiceSource is the CloudEvents source of everything this service emits.
	ServiceSource = "service-subscription"

	// TopicSubscriptionEvents carries StateChangeEvents.
	TopicSubscriptionEvents = "subscription.events"

	// SubscriptionStateChanged is the CloudEvent type of a StateChangeEvent.
	SubscriptionStateChanged = "subscription.state_changed"
)

// EventProducer is the slice of the Kafka producer the publisher needs.
type EventProducer interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// KafkaEventPublisher publishes state changes as CloudEvents keyed by subscription id.
type KafkaEventPublisher struct {
	producer EventProducer
	topic    string
}

// NewKafkaEventPublisher creates a publisher writing to topic.
func NewKafkaEventPublisher(producer EventProducer, topic string) *KafkaEventPublisher {
	if topic == "" {
		topic = TopicSubscriptionEvents
	}
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// Publish implements application.EventPublisher.
func (p *KafkaEventPublisher) Publish(ctx context.Context, event subscription.StateChangeEvent) error {
	ce, err := kafka.NewCloudEvent(ServiceSource, SubscriptionStateChanged, event)
	if err != nil {
		return err
	}
	return p.producer.PublishEvent(ctx, p.topic, ce.WithSubject(event.SubscriptionID))
}

// LogEventPublisher writes state changes to the log. Used when Kafka is disabled.
type LogEventPublisher struct {
	logger *zap.Logger
}

// NewLogEventPublisher creates a LogEventPublisher.
func NewLogEventPublisher(logger *zap.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger}
}

// Publish implements application.EventPublisher.
func (p *LogEventPublisher) Publish(_ context.Context, event subscription.StateChangeEvent) error {
	p.logger.Info("state change event",
		zap.String("subscription_id", event.SubscriptionID),
		zap.String("operation", string(event.Operation)),
		zap.String("old_state", string(event.OldState)),
		zap.String("new_state", string(event.NewState)),
		zap.Time("timestamp", event.Timestamp),
	)
	return nil
}
