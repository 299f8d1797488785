package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// WindowCounter is a shared store able to run one sliding-window admission atomically.
type WindowCounter interface {
	SlidingWindowAllow(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, error)
}

// RedisLimiter applies the same sliding window as SlidingWindow against a counter shared
// by every instance. Old entries expire with the key, so no compaction is needed.
type RedisLimiter struct {
	counter WindowCounter
	cfg     Config
	prefix  string
	now     func() time.Time
}

func NewRedisLimiter(counter WindowCounter, cfg Config, prefix string) *RedisLimiter {
	return &RedisLimiter{
		counter: counter,
		cfg:     cfg,
		prefix:  prefix,
		now:     time.Now,
	}
}

func (l *RedisLimiter) Admit(ctx context.Context, userID string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", l.prefix, userID)
	allowed, err := l.counter.SlidingWindowAllow(ctx, key, l.now(), l.cfg.Window, l.cfg.MaxRequests)
	if err != nil {
		return false, fmt.Errorf("failed to check shared rate limit: %w", err)
	}
	return allowed, nil
}

func (l *RedisLimiter) RetryAfter() int {
	return retryAfterSeconds(l.cfg.Window)
}
