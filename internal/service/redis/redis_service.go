package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims the sorted set to the current window, then records the
// request only when fewer than limit entries remain. Returns 1 when admitted.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= limit then
	return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

type Service struct {
	client *redis.Client
}

func NewRedisService(config RedisConfig) *Service {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		_ = client.Close()
		return nil
	}

	log.Printf("✅ Connected to Redis at %s:%s", config.Host, config.Port)
	return &Service{client: client}
}

func (r *Service) SlidingWindowAllow(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, error) {
	result, err := slidingWindowScript.Run(ctx, r.client, []string{key},
		now.UnixMilli(),
		window.Milliseconds(),
		limit,
		uuid.NewString(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to run sliding window script: %w", err)
	}

	return result == 1, nil
}

func (r *Service) Close() error {
	return r.client.Close()
}

func (r *Service) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
