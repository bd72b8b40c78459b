package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisRateLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisRateLimiter
		if !l.Allow("anon-1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisRateLimiter{client: &mockRedisEvaler{result: 1}, window: time.Minute, max: 3, prefix: "analyze:rl:"}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisRateLimiter{client: mock, window: 2 * time.Minute, max: 3, prefix: "analyze:rl:"}
		if !l.Allow(" ABC123 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "analyze:rl:abc123" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisRateLimiter{client: &mockRedisEvaler{result: 4}, window: time.Minute, max: 3, prefix: "analyze:rl:"}
		if l.Allow("abc") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisRateLimiter{client: &mockRedisEvaler{err: errors.New("redis down")}, window: time.Minute, max: 3, prefix: "analyze:rl:"}
		if !l.Allow("abc") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}

func TestRedisRateLimiter_Miniredis(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	l := NewRedisRateLimiter(client, time.Minute, 2)

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatalf("expected first two calls allowed")
	}
	if l.Allow("k") {
		t.Fatalf("expected third call denied")
	}
	mr.FastForward(2 * time.Minute)
	if !l.Allow("k") {
		t.Fatalf("expected window reset")
	}
}

func TestMemoryRateLimiter(t *testing.T) {
	l := NewMemoryRateLimiter(time.Minute, 2)
	if !l.Allow("a") || !l.Allow("A ") {
		t.Fatalf("expected allow within max")
	}
	if l.Allow("a") {
		t.Fatalf("expected deny after max")
	}
	if !l.Allow("b") {
		t.Fatalf("keys must be independent")
	}
	if l.Allow("") {
		t.Fatalf("expected empty key to be rejected")
	}
}
