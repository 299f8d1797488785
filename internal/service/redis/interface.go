package redis

import (
	"context"
	"time"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type ServiceInterface interface {
	SlidingWindowAllow(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, error)
	Health(ctx context.Context) error
	Close() error
}
