package events

import (
	"context"

	"authdesk/internal/logger"
)

// LogPublisher only logs events. Used when no Kafka brokers are configured.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (l *LogPublisher) Publish(ctx context.Context, e Event) error {
	l.log.InfoContext(ctx, "event",
		"type", e.Type,
		"user_id", e.UserID.String(),
		"occurred_at", e.OccurredAt,
	)
	return nil
}
