package mailer

import (
	"context"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"

	"github.com/google/uuid"
)

// LogSender accepts every valid message and only logs it. Used when no
// provider key is configured.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	s.log.Info("Email delivery skipped, no provider configured",
		"message_id", id,
		"recipients", len(msg.To),
		"subject", msg.Subject,
		"html_bytes", len(msg.HTML),
	)
	return id, nil
}
