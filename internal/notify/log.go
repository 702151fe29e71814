package notify

import (
	"context"
	"log"

	"github.com/accountbot/api/internal/domain"
)

// Log writes review events to the service log. Used when no Telegram channel
// is configured.
type Log struct {
	logger *log.Logger
}

func NewLog(logger *log.Logger) *Log {
	if logger == nil {
		logger = log.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) NotifyReview(_ context.Context, event domain.ReviewEvent) error {
	l.logger.Printf(
		"review received user=%d platform=%s account=%s outcome=%s",
		event.UserID, event.Platform, event.Credential, event.Outcome,
	)
	return nil
}
