package mailer

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// ThrottledSender keeps outbound calls under the provider's request rate.
// Waiting honours ctx, so a send blocked past its deadline fails instead of
// queueing forever.
type ThrottledSender struct {
	next    Sender
	limiter *rate.Limiter
}

func NewThrottledSender(next Sender, perSecond int) *ThrottledSender {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &ThrottledSender{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

func (s *ThrottledSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("email throttle: %w", err)
	}
	return s.next.Send(ctx, msg)
}
