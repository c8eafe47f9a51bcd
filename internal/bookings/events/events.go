// Package events publishes booking lifecycle events.
package events

import (
	"context"
	"time"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/kafka"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"
)

const (
	TypeBookingCreated            = "booking.created"
	TypeBookingNotificationSent   = "booking.notification_sent"
	TypeBookingNotificationFailed = "booking.notification_failed"
	TypeBookingStatusChanged      = "booking.status_changed"

	SchemaVersion = "1"
	Source        = "bookings"
)

// BookingEvent is the payload of every booking event.
type BookingEvent struct {
	Type               string    `json:"type"`
	BookingID          string    `json:"booking_id"`
	ServiceType        string    `json:"service_type,omitempty"`
	PreferredDate      string    `json:"preferred_date,omitempty"`
	Status             string    `json:"status,omitempty"`
	NotificationStatus string    `json:"notification_status,omitempty"`
	Error              string    `json:"error,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *model.Booking) BookingEvent {
	return BookingEvent{
		Type:               eventType,
		BookingID:          b.ID,
		ServiceType:        b.ServiceType,
		PreferredDate:      b.PreferredDate,
		Status:             b.Status,
		NotificationStatus: b.NotificationStatus,
		OccurredAt:         time.Now().UTC(),
	}
}

// Publisher emits booking events. Publishing is best effort: callers log
// failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, correlationID string, ev BookingEvent) error
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer producer
	timeout  time.Duration
}

// NewKafkaPublisher publishes through p. Each publish gets its own timeout
// detached from the request's cancellation.
func NewKafkaPublisher(p producer, timeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{producer: p, timeout: timeout}
}

func (p *KafkaPublisher) Publish(ctx context.Context, correlationID string, ev BookingEvent) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
	}

	msg := kafka.NewMessage().
		WithKey(ev.BookingID).
		WithEventType(ev.Type).
		WithCorrelationID(correlationID).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithTimestamp(ev.OccurredAt).
		WithValue(ev).
		Build()

	return p.producer.Publish(ctx, msg)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, BookingEvent) error { return nil }
