package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/aboadu/classtrack/internal/app/models/dto"
	"github.com/aboadu/classtrack/internal/pkg/logger"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit returns a middleware enforcing per-client-IP limits. Intended
// for the check-in endpoint, where a misbehaving client retry loop can
// otherwise hammer the store.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if key == "" {
			key = "unknown"
		}
		if !limiter.Allow(c.Request.Context(), key) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// MemoryLimiter is an in-process token bucket, used when no Redis address is
// configured (single-instance deployments).
type MemoryLimiter struct {
	capacity int
	rate     int
	mu       sync.Mutex
	state    map[string]*bucket
}

type bucket struct {
	tokens int
	last   time.Time
}

// NewMemoryLimiter creates a limiter with capacity burst tokens refilled at
// perMinute tokens per minute.
func NewMemoryLimiter(capacity, perMinute int) *MemoryLimiter {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &MemoryLimiter{
		capacity: capacity,
		rate:     perMinute,
		state:    make(map[string]*bucket),
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.state[key]
	if !ok {
		l.state[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true
	}

	refill := int(now.Sub(b.last).Minutes() * float64(l.rate))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// RedisLimiter enforces a fixed one-minute window shared across instances.
type RedisLimiter struct {
	client    *redis.Client
	perMinute int
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, perMinute int) *RedisLimiter {
	return &RedisLimiter{client: client, perMinute: perMinute}
}

// Allow implements Limiter. When Redis itself is unreachable the request is
// allowed through: rate limiting protects capacity, it must not become the
// availability bottleneck.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	window := time.Now().Unix() / 60
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, window)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn().Err(err).Msg("Rate limiter Redis error, allowing request")
		return true
	}

	return count.Val() <= int64(l.perMinute)
}
