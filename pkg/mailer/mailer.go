// Package mailer sends transactional email through a pluggable transport.
package mailer

import (
	"context"
	"errors"
	"strings"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
)

var (
	ErrNoRecipients = errors.New("message has no recipients")
	ErrNoSender     = errors.New("message has no from address")
	ErrEmptySubject = errors.New("message subject cannot be empty")
)

type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Validate checks the fields every transport requires.
func (m Message) Validate() error {
	if strings.TrimSpace(m.From) == "" {
		return ErrNoSender
	}
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range m.To {
		if strings.TrimSpace(to) == "" {
			return ErrNoRecipients
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrEmptySubject
	}
	return nil
}

// Sender delivers one message and returns the transport's message ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) (string, error)

func (f SenderFunc) Send(ctx context.Context, msg Message) (string, error) {
	return f(ctx, msg)
}

// NewSender picks the transport: Resend when apiKey is set, otherwise a
// sender that only logs. Either way sends are throttled to perSecond.
func NewSender(apiKey string, perSecond int, log *logger.Logger) (Sender, error) {
	if apiKey == "" {
		log.Warn("Resend API key not set, emails will only be logged")
		return NewThrottledSender(NewLogSender(log), perSecond), nil
	}
	resendSender, err := NewResendSender(apiKey)
	if err != nil {
		return nil, err
	}
	return NewThrottledSender(resendSender, perSecond), nil
}
