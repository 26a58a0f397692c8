package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/pkg/redis"
	"skillijob-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit  int
	Window time.Duration
	// Defaults to the client IP.
	KeyFunc func(*gin.Context) string
	// Redis key prefix, e.g. "rl:ip:"
	KeyPrefix string
	// Reject instead of falling back to memory when Redis errors.
	FailClosed bool
}

// Atomic INCR with a TTL set on the first hit.
// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

var rateLimitScript = goredis.NewScript(rateLimitLuaScript)

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// memoryCounter is the fixed-window fallback used without Redis.
type memoryCounter struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	hits    int
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{entries: map[string]*rateLimitEntry{}}
}

func (m *memoryCounter) incr(key string, window time.Duration, now time.Time) (int, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits++
	if m.hits%1000 == 0 {
		for k, e := range m.entries {
			if now.After(e.resetAt) {
				delete(m.entries, k)
			}
		}
	}

	e, ok := m.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &rateLimitEntry{resetAt: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt
}

// GlobalRateLimitConfig applies to every route.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:ip:"}
}

// LoginRateLimitConfig is the per-IP limit of the auth endpoints. The
// per-account lockout lives in the auth usecase.
func LoginRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:login:", FailClosed: true}
}

// FormRateLimitConfig covers the public forms (contact, newsletter).
func FormRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 10, Window: time.Minute, KeyPrefix: "rl:form:"}
}

// RateLimitMiddleware enforces config with Redis when it is available and an
// in-memory window otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	fallback := newMemoryCounter()

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time

		if client := redis.Client(); client != nil {
			var err error
			count, resetAt, err = checkRateLimitRedis(c.Request.Context(), client, fullKey, config.Window)
			if err != nil {
				if config.FailClosed {
					logRateLimitError(c, err)
					response.Error(c, http.StatusServiceUnavailable, "Service momentanément indisponible, réessayez plus tard.", nil)
					c.Abort()
					return
				}
				count, resetAt = fallback.incr(fullKey, config.Window, now)
			}
		} else {
			count, resetAt = fallback.incr(fullKey, config.Window, now)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(now).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			security.DefaultLogger().LogRateLimitTriggered(
				c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), response.RequestID(c), c.FullPath(),
			)

			response.Error(c, http.StatusTooManyRequests, "Trop de requêtes. Veuillez réessayer plus tard.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, time.Time, error) {
	ttlSeconds := int(window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := rateLimitScript.Run(ctx, client, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

func logRateLimitError(c *gin.Context, err error) {
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   response.RequestID(c),
		Details: map[string]interface{}{
			"error_type": "redis_error",
			"error":      err.Error(),
		},
	})
}
