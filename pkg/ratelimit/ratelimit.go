package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter bounds how often a keyed action may happen inside a window.
type Limiter interface {
	// Allow increments the counter for key and reports whether the
	// action is still inside the limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type redisLimiter struct {
	client *redis.Client
}

// NewRedisLimiter counts attempts in Redis so the limit holds across
// instances.
func NewRedisLimiter(client *redis.Client) Limiter {
	return &redisLimiter{client: client}
}

func (l *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	counterKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, counterKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to expire rate limit counter: %w", err)
		}
	}

	return count <= int64(limit), nil
}

type memoryEntry struct {
	count   int
	resetAt time.Time
}

type memoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

// NewMemoryLimiter is a single-process fallback, used in tests and when no
// Redis URL is configured.
func NewMemoryLimiter() Limiter {
	return &memoryLimiter{entries: make(map[string]*memoryEntry)}
}

func (l *memoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		l.entries[key] = &memoryEntry{count: 1, resetAt: now.Add(window)}
		return true, nil
	}

	entry.count++
	return entry.count <= limit, nil
}
