package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker/v2"
)

// RedisCache is a Cache backed by Redis. Calls go through a circuit breaker so that
// an unavailable Redis fails fast instead of adding latency to every request.
type RedisCache struct {
	client  redis.UniversalClient
	breaker *gobreaker.CircuitBreaker[string]
}

// NewRedisCache wraps a Redis client with a circuit breaker configured by cfg.
func NewRedisCache(client redis.UniversalClient, cfg config.CircuitBreakerConfig) *RedisCache {
	return &RedisCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[string](breakerSettings("redis-cache-cb", cfg)),
	}
}

func breakerSettings(name string, cfg config.CircuitBreakerConfig) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// a missing key or a cancelled request says nothing about Redis health
			return err == nil ||
				errors.Is(err, ErrCacheMiss) ||
				errors.Is(err, context.Canceled)
		},
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		v, err := c.client.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return "", ErrCacheMiss
			}
			return "", fmt.Errorf("redis get %s: %w", key, err)
		}
		return v, nil
	})
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := c.breaker.Execute(func() (string, error) {
		if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
			return "", fmt.Errorf("redis set %s: %w", key, err)
		}
		return "", nil
	})
	return err
}
