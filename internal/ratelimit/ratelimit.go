// Package ratelimit provides a Redis-backed per-IP limiter for the public
// subscription intake endpoint.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// checkAndIncrLuaScript atomically increments the counter for a caller and
// starts the window on first hit. Returns 1 when the request is allowed.
const checkAndIncrLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local windowSeconds = tonumber(ARGV[2])

local current = redis.call("INCR", key)
if current == 1 then
    redis.call("EXPIRE", key, windowSeconds)
end

if current > limit then
    return 0
end
return 1
`

// Limiter enforces a fixed-window per-IP request limit in Redis so the
// limit holds across multiple server instances.
type Limiter struct {
	redis              *redis.Client
	limit              int
	window             time.Duration
	checkAndIncrScript *redis.Script
}

// NewLimiter creates a limiter allowing limit requests per window per key.
func NewLimiter(redisClient *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{
		redis:              redisClient,
		limit:              limit,
		window:             window,
		checkAndIncrScript: redis.NewScript(checkAndIncrLuaScript),
	}
}

// Allow reports whether the caller identified by ip may proceed. Errors
// talking to Redis are returned to the caller; the boundary decides whether
// to fail open or closed.
func (l *Limiter) Allow(ctx context.Context, ip string) (bool, error) {
	key := fmt.Sprintf("intake:ratelimit:%s", ip)
	result, err := l.checkAndIncrScript.Run(ctx, l.redis,
		[]string{key},
		l.limit,
		int(l.window.Seconds()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}
	return result == 1, nil
}
