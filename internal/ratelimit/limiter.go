// Package ratelimit implements the per-user sliding-window admission limiter that guards
// ingestion and report endpoints.
//
// SlidingWindow keeps its state in the current process only. Several instances behind a
// load balancer each admit up to the limit on their own, so deployments with more than
// one instance must use the shared RedisLimiter to enforce a global limit.
package ratelimit

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/dinerozz/productivity-tracker-backend/pkg/keylock"
)

type Config struct {
	MaxRequests int
	Window      time.Duration
	// CompactionProbability is the chance per call of sweeping every user's window.
	CompactionProbability float64
}

const DefaultCompactionProbability = 0.01

// Limiter is what the HTTP layer consults before serving a request.
type Limiter interface {
	Admit(ctx context.Context, userID string) (bool, error)
	// RetryAfter is the hint in seconds returned with a rejection.
	RetryAfter() int
}

type SlidingWindow struct {
	cfg   Config
	store Store
	locks *keylock.KeyedMutex
	now   func() time.Time
	roll  func() float64
}

func NewSlidingWindow(cfg Config, store Store) *SlidingWindow {
	if store == nil {
		store = NewMemoryStore()
	}
	return &SlidingWindow{
		cfg:   cfg,
		store: store,
		locks: keylock.New(),
		now:   time.Now,
		roll:  rand.Float64,
	}
}

// Allow drops timestamps at or before now-window, rejects when the rest already reach
// MaxRequests and otherwise records now.
func (l *SlidingWindow) Allow(userID string, now time.Time) bool {
	allowed := l.admit(userID, now)

	if l.roll() < l.cfg.CompactionProbability {
		l.Compact(now)
	}
	return allowed
}

func (l *SlidingWindow) admit(userID string, now time.Time) bool {
	unlock := l.locks.Lock(userID)
	defer unlock()

	recent := prune(l.store.Get(userID), now.Add(-l.cfg.Window))
	if len(recent) >= l.cfg.MaxRequests {
		l.store.Set(userID, recent)
		return false
	}

	l.store.Set(userID, append(recent, now))
	return true
}

func (l *SlidingWindow) Admit(_ context.Context, userID string) (bool, error) {
	return l.Allow(userID, l.now()), nil
}

func (l *SlidingWindow) RetryAfter() int {
	return retryAfterSeconds(l.cfg.Window)
}

// Compact drops timestamps older than twice the window and forgets users left empty.
func (l *SlidingWindow) Compact(now time.Time) {
	cutoff := now.Add(-2 * l.cfg.Window)
	for _, key := range l.store.Keys() {
		unlock := l.locks.Lock(key)
		kept := prune(l.store.Get(key), cutoff)
		if len(kept) == 0 {
			l.store.Delete(key)
		} else {
			l.store.Set(key, kept)
		}
		unlock()
	}
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	kept := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

func retryAfterSeconds(window time.Duration) int {
	return int(math.Ceil(window.Seconds()))
}
