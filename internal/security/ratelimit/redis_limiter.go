package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourorg/genwork/internal/infrastructure/redis"
)

// RedisLimiter is a fixed-window rate limiter backed by Redis counters,
// shared across instances. It fails open: if Redis is unreachable the
// request proceeds and the error is logged.
type RedisLimiter struct {
	client  *redis.Client
	maxReqs int64
	window  time.Duration
	logger  *slog.Logger
}

// NewRedisLimiter creates a limiter allowing maxRequests per window per key
func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration, logger *slog.Logger) *RedisLimiter {
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisLimiter{
		client:  client,
		maxReqs: int64(maxRequests),
		window:  window,
		logger:  logger,
	}
}

// Allow reports whether the key is still within its window budget
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if key == "" {
		return true
	}

	count, err := l.client.IncrWindow(ctx, "ratelimit:"+key, l.window)
	if err != nil {
		l.logger.Error("rate limit check failed, allowing request",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return true
	}

	return count <= l.maxReqs
}
