package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether the request identified by key may proceed.
// Implementations are safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// MemoryLimiter rate-limits per client IP with in-process token buckets.
// Suitable for a single instance; use RedisLimiter when the budget must be
// shared across replicas.
type MemoryLimiter struct {
	ips             map[string]*rate.Limiter
	mu              sync.RWMutex
	rps             rate.Limit
	burst           int
	cleanupInterval time.Duration
}

// NewMemoryLimiter creates a new in-process limiter
func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	ml := &MemoryLimiter{
		ips:             make(map[string]*rate.Limiter),
		rps:             rate.Limit(rps),
		burst:           burst,
		cleanupInterval: 10 * time.Minute,
	}

	// Start background cleanup (simplified for now, avoiding goroutine leak in tests)
	go ml.cleanup()

	return ml
}

// Allow reports whether the client identified by key has budget left.
func (ml *MemoryLimiter) Allow(_ context.Context, key string) bool {
	return ml.getLimiter(key).Allow()
}

// getLimiter returns the bucket for a client, creating it on first sight.
func (ml *MemoryLimiter) getLimiter(key string) *rate.Limiter {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	limiter, exists := ml.ips[key]
	if !exists {
		limiter = rate.NewLimiter(ml.rps, ml.burst)
		ml.ips[key] = limiter
	}

	return limiter
}

// cleanup removes old entries (simplified: just clear all every interval to prevent memory leak)
// In production, we'd track last access time per client
func (ml *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(ml.cleanupInterval)
	for range ticker.C {
		ml.mu.Lock()
		// Simple strategy: reset map to free memory from drive-by IPs
		// Active users will get new limiter on next request
		ml.ips = make(map[string]*rate.Limiter)
		ml.mu.Unlock()
	}
}

// RateLimitMiddleware creates a middleware throttling by client IP
func RateLimitMiddleware(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)

			if !l.Allow(r.Context(), ip) {
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts IP from request (handling proxies)
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		return forwarded
	}
	// Fallback to RemoteAddr
	return r.RemoteAddr
}
