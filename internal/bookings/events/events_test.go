package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/kafka"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	msgs        []kafka.Message
	err         error
	hadDeadline bool
	ctxErr      error
}

func (p *recordingProducer) Publish(ctx context.Context, msg kafka.Message) error {
	_, p.hadDeadline = ctx.Deadline()
	p.ctxErr = ctx.Err()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestKafkaPublisher_Publish(t *testing.T) {
	rp := &recordingProducer{}
	pub := NewKafkaPublisher(rp, time.Second)

	booking := &model.Booking{
		ID:                 "665f1c2e8b3e4a0012345678",
		ServiceType:        "Deep Cleaning",
		PreferredDate:      "2030-07-01",
		Status:             model.BookingStatusPending,
		NotificationStatus: model.NotificationStatusSent,
	}
	ev := NewBookingEvent(TypeBookingNotificationSent, booking)

	require.NoError(t, pub.Publish(context.Background(), "req-1", ev))
	require.Len(t, rp.msgs, 1)

	msg := rp.msgs[0]
	assert.True(t, rp.hadDeadline)
	assert.Equal(t, booking.ID, msg.Key)
	assert.Equal(t, TypeBookingNotificationSent, msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())

	var decoded BookingEvent
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, booking.ID, decoded.BookingID)
	assert.Equal(t, model.NotificationStatusSent, decoded.NotificationStatus)
}

func TestKafkaPublisher_SurvivesCancelledRequest(t *testing.T) {
	rp := &recordingProducer{}
	pub := NewKafkaPublisher(rp, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, pub.Publish(ctx, "", NewBookingEvent(TypeBookingCreated, &model.Booking{ID: "b"})))
	assert.NoError(t, rp.ctxErr)
	_, hasCorrelation := rp.msgs[0].GetHeader(kafka.HeaderCorrelationID)
	assert.False(t, hasCorrelation)
}

func TestKafkaPublisher_PropagatesError(t *testing.T) {
	rp := &recordingProducer{err: errors.New("broker down")}
	pub := NewKafkaPublisher(rp, 0)

	err := pub.Publish(context.Background(), "", NewBookingEvent(TypeBookingCreated, &model.Booking{ID: "b"}))
	assert.EqualError(t, err, "broker down")
}
