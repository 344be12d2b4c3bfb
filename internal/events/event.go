// Package events publishes user lifecycle events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// 事件類型
const (
	TypeUserCreated         = "user.created"
	TypeUserStatusChanged   = "user.status_changed"
	TypeUserPasswordChanged = "user.password_changed"
)

// Event 是送往 Kafka 的訊息內容
type Event struct {
	Type       string         `json:"event_type"`
	UserID     uuid.UUID      `json:"user_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// New 建立事件並記錄發生時間
func New(eventType string, userID uuid.UUID, data map[string]any) Event {
	return Event{
		Type:       eventType,
		UserID:     userID,
		OccurredAt: now().UTC(),
		Data:       data,
	}
}

var now = time.Now

// Publisher sends events somewhere. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
