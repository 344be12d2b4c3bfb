package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"authdesk/internal/logger"
	"authdesk/internal/worker"
)

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = orig })
	return ts
}

func TestNew(t *testing.T) {
	ts := fixedNow(t)
	id := uuid.New()
	e := New(TypeUserCreated, id, map[string]any{"email": "a@b.c"})
	require.Equal(t, TypeUserCreated, e.Type)
	require.Equal(t, id, e.UserID)
	require.Equal(t, ts, e.OccurredAt)

	b, err := json.Marshal(e)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, "user.created", got["event_type"])
	require.Equal(t, id.String(), got["user_id"])
	require.Equal(t, "2025-03-01T12:00:00Z", got["occurred_at"])
}

func TestKafkaPublisher(t *testing.T) {
	fixedNow(t)
	id := uuid.New()

	t.Run("sends json keyed by user", func(t *testing.T) {
		p := mocks.NewSyncProducer(t, nil)
		p.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			if msg.Topic != "user.events" {
				return errors.New("wrong topic " + msg.Topic)
			}
			key, _ := msg.Key.Encode()
			if string(key) != id.String() {
				return errors.New("wrong key")
			}
			val, _ := msg.Value.Encode()
			var e Event
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			if e.Type != TypeUserStatusChanged || e.Data["isActive"] != false {
				return errors.New("unexpected payload")
			}
			return nil
		})
		pub := NewKafkaPublisher(p, "user.events")
		err := pub.Publish(context.Background(), New(TypeUserStatusChanged, id, map[string]any{"isActive": false}))
		require.NoError(t, err)
		require.NoError(t, pub.Close())
	})

	t.Run("send error", func(t *testing.T) {
		p := mocks.NewSyncProducer(t, nil)
		p.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
		pub := NewKafkaPublisher(p, "user.events")
		err := pub.Publish(context.Background(), New(TypeUserCreated, id, nil))
		require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
		require.NoError(t, pub.Close())
	})
}

func TestNewSyncProducer(t *testing.T) {
	orig := saramaNewSyncProducer
	t.Cleanup(func() { saramaNewSyncProducer = orig })

	t.Run("error", func(t *testing.T) {
		saramaNewSyncProducer = func([]string, *sarama.Config) (sarama.SyncProducer, error) {
			return nil, sarama.ErrOutOfBrokers
		}
		_, err := NewSyncProducer([]string{"x:9092"})
		require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	})

	t.Run("ok", func(t *testing.T) {
		var gotCfg *sarama.Config
		mp := mocks.NewSyncProducer(t, nil)
		saramaNewSyncProducer = func(brokers []string, cfg *sarama.Config) (sarama.SyncProducer, error) {
			gotCfg = cfg
			require.Equal(t, []string{"x:9092"}, brokers)
			return mp, nil
		}
		p, err := NewSyncProducer([]string{"x:9092"})
		require.NoError(t, err)
		require.True(t, gotCfg.Producer.Return.Successes)
		require.Equal(t, sarama.WaitForAll, gotCfg.Producer.RequiredAcks)
		require.NoError(t, p.Close())
	})
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(logger.NewWithWriter(0, &buf))
	id := uuid.New()
	require.NoError(t, pub.Publish(context.Background(), New(TypeUserPasswordChanged, id, nil)))
	require.Contains(t, buf.String(), "type=user.password_changed")
	require.Contains(t, buf.String(), id.String())
}

type recorder struct {
	mu   sync.Mutex
	got  []Event
	err  error
	done chan struct{}
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	r.got = append(r.got, e)
	r.mu.Unlock()
	if r.done != nil {
		<-r.done
	}
	return r.err
}

func TestAsyncPublisher(t *testing.T) {
	t.Run("delivers via pool", func(t *testing.T) {
		rec := &recorder{}
		pool := worker.NewPool(1, 4)
		pub := NewAsyncPublisher(rec, pool, logger.Nop())
		require.NoError(t, pub.Publish(context.Background(), New(TypeUserCreated, uuid.New(), nil)))
		pool.Stop()
		require.Len(t, rec.got, 1)
	})

	t.Run("logs downstream error", func(t *testing.T) {
		var buf bytes.Buffer
		rec := &recorder{err: errors.New("broker down")}
		pool := worker.NewPool(1, 1)
		pub := NewAsyncPublisher(rec, pool, logger.NewWithWriter(0, &buf))
		require.NoError(t, pub.Publish(context.Background(), New(TypeUserCreated, uuid.New(), nil)))
		pool.Stop()
		require.Contains(t, buf.String(), "publish event failed")
		require.Contains(t, buf.String(), "broker down")
	})

	t.Run("drops when full", func(t *testing.T) {
		var buf bytes.Buffer
		rec := &recorder{done: make(chan struct{})}
		pool := worker.NewPool(1, 0)
		pub := NewAsyncPublisher(rec, pool, logger.NewWithWriter(0, &buf))

		// 第一個事件佔住唯一的 worker
		require.Eventually(t, func() bool {
			_ = pub.Publish(context.Background(), New(TypeUserCreated, uuid.New(), nil))
			rec.mu.Lock()
			defer rec.mu.Unlock()
			return len(rec.got) == 1
		}, time.Second, 5*time.Millisecond)

		buf.Reset()
		require.NoError(t, pub.Publish(context.Background(), New(TypeUserCreated, uuid.New(), nil)))
		require.Contains(t, buf.String(), "event queue full")

		close(rec.done)
		pool.Stop()
	})
}
