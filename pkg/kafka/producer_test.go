package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	err    error
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriters(w, nil, "booking-events", "")

	msg := NewMessage().
		WithKey("b-1").
		WithEventType("booking.created").
		WithValue(map[string]string{"id": "b-1"}).
		Build()

	require.NoError(t, p.Publish(context.Background(), msg))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "b-1", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"id":"b-1"}`, string(w.msgs[0].Value))
	assert.Equal(t, "booking.created", header(w.msgs[0], HeaderEventType))
	assert.NotEmpty(t, header(w.msgs[0], HeaderEventID))
	assert.NotEmpty(t, header(w.msgs[0], HeaderTimestamp))
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := NewProducerWithWriters(&fakeWriter{}, nil, "t", "")

	err := p.Publish(context.Background(), NewMessage().WithValue("x").Build())
	assert.ErrorIs(t, err, ErrEmptyKey)

	err = p.Publish(context.Background(), NewMessage().WithKey("k").WithValue(func() {}).Build())
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writeErr := errors.New("broker down")
	w := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	p := NewProducerWithWriters(w, dlq, "booking-events", "booking-events-dlq")

	msg := NewMessage().WithKey("b-1").WithValue("payload").Build()
	err := p.Publish(context.Background(), msg)

	assert.ErrorIs(t, err, writeErr)
	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "booking-events", header(dlq.msgs[0], HeaderOriginalTopic))
	assert.Equal(t, "broker down", header(dlq.msgs[0], "dlq-error"))
	_, leaked := msg.Headers[HeaderOriginalTopic]
	assert.False(t, leaked, "caller's headers must not be mutated")
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := NewProducerWithWriters(&fakeWriter{}, nil, "events", "")

	var order []string
	for _, name := range []string{"outer", "inner"} {
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name+":"+msg.Topic)
			return next(ctx, msg)
		})
	}

	require.NoError(t, p.Publish(context.Background(), NewMessage().WithKey("k").WithValue(1).Build()))
	assert.Equal(t, []string{"outer:events", "inner:events"}, order)
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	dlq := &fakeWriter{}
	p := NewProducerWithWriters(w, dlq, "t", "t-dlq")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.True(t, dlq.closed)

	err := p.Publish(context.Background(), NewMessage().WithKey("k").WithValue(1).Build())
	assert.ErrorIs(t, err, ErrProducerClosed)
}
