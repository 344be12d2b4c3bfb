package events

import (
	"context"
	"time"

	"authdesk/internal/logger"
	"authdesk/internal/worker"
)

const publishTimeout = 5 * time.Second

// AsyncPublisher hands events to a worker pool so requests never wait on
// the broker. Events are dropped with a warning when the queue is full;
// Publish therefore never returns an error.
type AsyncPublisher struct {
	next Publisher
	pool worker.Pool
	log  *logger.Logger
}

func NewAsyncPublisher(next Publisher, pool worker.Pool, log *logger.Logger) *AsyncPublisher {
	return &AsyncPublisher{next: next, pool: pool, log: log}
}

func (a *AsyncPublisher) Publish(_ context.Context, e Event) error {
	ok := a.pool.TrySubmit(func() {
		// 請求結束後 ctx 可能已取消，改用獨立的 context
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := a.next.Publish(ctx, e); err != nil {
			a.log.Error("publish event failed", "type", e.Type, "user_id", e.UserID.String(), "error", err)
		}
	})
	if !ok {
		a.log.Warn("event queue full, dropping event", "type", e.Type, "user_id", e.UserID.String())
	}
	return nil
}
