package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgergate/ledgergate/internal/observability/logger"
)

// allowScript counts a request in the current fixed window and arms the
// window expiry on the first hit. Returned as {current, ttl_millis} so the
// caller gets the count and remaining window in one round trip.
var allowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter enforces a fixed-window request budget stored in Redis, so
// horizontally scaled gateways share one budget per client. It fails open:
// an unreachable Redis must not take the API down with it.
type RedisLimiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
}

// NewRedisLimiter creates a limiter of maxRequests per window.
func NewRedisLimiter(client *redis.Client, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow reports whether the client identified by key has budget left in
// the current window.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) bool {
	result, err := allowScript.Run(ctx, rl.client, []string{"ratelimit:" + key}, rl.window.Milliseconds()).Result()
	if err != nil {
		slog.WarnContext(ctx, "rate limit check failed, allowing request",
			logger.Component("ratelimit"),
			logger.Error(err),
		)
		return true
	}

	values, ok := result.([]any)
	if !ok || len(values) != 2 {
		return true
	}
	current, ok := values[0].(int64)
	if !ok {
		return true
	}

	return current <= int64(rl.maxRequests)
}
