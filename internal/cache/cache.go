package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	probeKey = "authdesk:ping"
	probeTTL = 10 * time.Second
)

// Cache 是服務用到的 Redis 指令子集，*redis.Client 直接實作
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// Probe 寫入一個短效 key，確認 Redis 可寫入而非只是可連線
func Probe(ctx context.Context, c Cache) error {
	return c.Set(ctx, probeKey, time.Now().Unix(), probeTTL).Err()
}

// FakeCache 以函式欄位模擬 Cache；Ping 與 Close 未設定時視為成功
type FakeCache struct {
	SetFn   func(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	PingFn  func(ctx context.Context) *redis.StatusCmd
	CloseFn func() error
}

func (f *FakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if f.SetFn == nil {
		panic("unexpected Set: " + key)
	}
	return f.SetFn(ctx, key, value, ttl)
}

func (f *FakeCache) Ping(ctx context.Context) *redis.StatusCmd {
	if f.PingFn == nil {
		return redis.NewStatusResult("PONG", nil)
	}
	return f.PingFn(ctx)
}

func (f *FakeCache) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
