// Package ratelimit throttles requests per client key, either in process or
// shared across instances through Redis.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter keeps one token bucket per key.
type MemoryLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*entry
	rate      rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows perWindow requests per window with bursts of the
// same size.
func NewMemoryLimiter(perWindow int, window time.Duration) *MemoryLimiter {
	if perWindow < 1 {
		perWindow = 1
	}
	return &MemoryLimiter{
		limiters:  make(map[string]*entry),
		rate:      rate.Limit(float64(perWindow) / window.Seconds()),
		burst:     perWindow,
		idleAfter: 2 * window,
		now:       time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idleAfter {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) > l.idleAfter {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1), nil
}

// RedisLimiter is a fixed-window counter shared by every instance using the
// same Redis.
type RedisLimiter struct {
	client    *redis.Client
	perWindow int
	window    time.Duration
	prefix    string
}

func NewRedisLimiter(client *redis.Client, perWindow int, window time.Duration, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{client: client, perWindow: perWindow, window: window, prefix: prefix}
}

// Allow fails open: on a Redis error the request is allowed and the error
// returned for logging.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, fmt.Errorf("redis error: %w", err)
	}
	// the first hit of a window starts its clock
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, fmt.Errorf("redis error: %w", err)
		}
	}
	return count <= int64(l.perWindow), nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, fmt.Sprintf("%s:%s", l.prefix, key)).Err()
}
