package security

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"skillijob-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// UploadLimiter caps CV uploads per client IP over a sliding window. It uses
// Redis when available and an in-process window otherwise.
type UploadLimiter struct {
	limit  int
	window time.Duration

	mu    sync.Mutex
	local map[string][]time.Time
	now   func() time.Time
}

// KEYS[1] = limiter key, ARGV[1] = limit, ARGV[2] = window in ms, ARGV[3] = now in ms, ARGV[4] = member
// Returns 1 if allowed, 0 if limited.
var slidingWindowScript = goredis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
if redis.call('ZCARD', key) >= limit then
    return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

func NewUploadLimiter(limit int, window time.Duration) *UploadLimiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Hour
	}
	return &UploadLimiter{
		limit:  limit,
		window: window,
		local:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records an upload attempt for ip and reports whether it is within the limit.
func (l *UploadLimiter) Allow(ctx context.Context, ip string) bool {
	if client := redis.Client(); client != nil {
		now := l.now()
		member := strconv.FormatInt(now.UnixNano(), 10)
		res, err := slidingWindowScript.Run(ctx, client,
			[]string{fmt.Sprintf("upload:cv:%s", ip)},
			l.limit, l.window.Milliseconds(), now.UnixMilli(), member,
		).Int()
		if err == nil {
			return res == 1
		}
	}
	return l.allowLocal(ip)
}

func (l *UploadLimiter) allowLocal(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	recent := l.local[ip][:0]
	for _, at := range l.local[ip] {
		if at.After(cutoff) {
			recent = append(recent, at)
		}
	}
	if len(recent) >= l.limit {
		l.local[ip] = recent
		return false
	}
	l.local[ip] = append(recent, now)
	return true
}
