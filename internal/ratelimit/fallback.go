package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	breakerFailureThreshold = 3
	breakerOpenTimeout      = 30 * time.Second
)

// FallbackLimiter asks the shared limiter first and drops to the process-local one while
// the shared one is failing. During that time limits are enforced per instance only.
type FallbackLimiter struct {
	primary  Limiter
	fallback Limiter
	breaker  *gobreaker.CircuitBreaker[bool]
	logger   *slog.Logger
}

func NewFallbackLimiter(name string, primary, fallback Limiter, logger *slog.Logger) *FallbackLimiter {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("rate limiter circuit breaker state changed",
				"limiter", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &FallbackLimiter{
		primary:  primary,
		fallback: fallback,
		breaker:  gobreaker.NewCircuitBreaker[bool](settings),
		logger:   logger,
	}
}

func (f *FallbackLimiter) Admit(ctx context.Context, userID string) (bool, error) {
	allowed, err := f.breaker.Execute(func() (bool, error) {
		return f.primary.Admit(ctx, userID)
	})
	if err != nil {
		f.logger.Debug("shared rate limiter unavailable, using local window",
			"limiter", f.breaker.Name(),
			"error", err,
		)
		return f.fallback.Admit(ctx, userID)
	}
	return allowed, nil
}

func (f *FallbackLimiter) RetryAfter() int {
	return f.primary.RetryAfter()
}
