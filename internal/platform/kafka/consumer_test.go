package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves a fixed batch of messages, then cancels the consume loop.
type fakeReader struct {
	mu        sync.Mutex
	pending   []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.pending[0]
	r.pending = r.pending[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func newTestConsumer(r *fakeReader) *Consumer {
	c := newConsumer(r, "billing.events", zap.NewNop())
	c.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	return c
}

func TestConsume_FailedMessageIsHandledAgainBeforeMovingOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		pending: []kafkago.Message{{Offset: 10}, {Offset: 11}},
		cancel:  cancel,
	}
	c := newTestConsumer(reader)

	var handled []int64
	failures := 1
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		handled = append(handled, msg.Offset)
		if msg.Offset == 10 && failures > 0 {
			failures--
			return errors.New("database unavailable")
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{10, 10, 11}, handled)
	assert.Equal(t, []int64{10, 11}, reader.committed)
}

func TestConsume_StopsRetryingWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		pending: []kafkago.Message{{Offset: 10}, {Offset: 11}},
		cancel:  cancel,
	}
	c := newTestConsumer(reader)

	attempts := 0
	err := c.Consume(ctx, func(_ context.Context, msg kafkago.Message) error {
		require.Equal(t, int64(10), msg.Offset)
		attempts++
		if attempts == 3 {
			cancel()
		}
		return errors.New("database unavailable")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, attempts, 3)
	assert.Empty(t, reader.committed)
	assert.Len(t, reader.pending, 1)
}
