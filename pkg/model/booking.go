package model

import (
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"

	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// BookingRequest is a booking form submission as received on the wire.
// Field order is the order validation messages are reported in.
type BookingRequest struct {
	Name          string `json:"name" validate:"trimmed_min=2"`
	Email         string `json:"email" validate:"booking_email"`
	ServiceType   string `json:"serviceType" validate:"required"`
	PreferredDate string `json:"preferredDate" validate:"required,calendar_date,not_past"`
	PreferredTime string `json:"preferredTime" validate:"required"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,booking_phone"`
	Message       string `json:"message,omitempty"`
}

// Booking is a stored booking record.
type Booking struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name               string    `json:"name" bson:"name"`
	Email              string    `json:"email" bson:"email"`
	Phone              string    `json:"phone,omitempty" bson:"phone,omitempty"`
	ServiceType        string    `json:"service_type" bson:"service_type"`
	PreferredDate      string    `json:"preferred_date" bson:"preferred_date"`
	PreferredTime      string    `json:"preferred_time" bson:"preferred_time"`
	Message            string    `json:"message,omitempty" bson:"message,omitempty"`
	Status             string    `json:"status" bson:"status"`
	NotificationStatus string    `json:"notification_status" bson:"notification_status"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at,omitzero" bson:"updated_at,omitempty"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}
