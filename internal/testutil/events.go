package testutil

import (
	"context"
	"sync"

	"authdesk/internal/events"
)

// RecordingPublisher keeps every published event in memory.
// 設定 Err 時不記錄事件，直接回傳該錯誤。
type RecordingPublisher struct {
	Err error

	mu     sync.Mutex
	events []events.Event
}

func (r *RecordingPublisher) Publish(_ context.Context, e events.Event) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (r *RecordingPublisher) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// Types returns the recorded event types in publish order.
func (r *RecordingPublisher) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
