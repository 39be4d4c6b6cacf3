package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// InMemoryRateLimiter tracks request timestamps per key inside a sliding
// window. Keys are client IPs on the public surface and account emails on
// the authenticated surface.
type InMemoryRateLimiter struct {
	mu     sync.Mutex
	visits map[string][]time.Time
	limit  int
	window time.Duration
}

func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	r := &InMemoryRateLimiter{
		visits: make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
	go r.sweep()
	return r
}

// prune drops timestamps older than the window. Caller holds the lock.
func prune(times []time.Time, cutoff time.Time) []time.Time {
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (r *InMemoryRateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	times := prune(r.visits[key], now.Add(-r.window))
	if len(times) >= r.limit {
		r.visits[key] = times
		return false
	}
	r.visits[key] = append(times, now)
	return true
}

// sweep evicts idle keys so the map does not grow with one-off clients.
func (r *InMemoryRateLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		r.mu.Lock()
		cutoff := time.Now().Add(-r.window)
		for k, times := range r.visits {
			if kept := prune(times, cutoff); len(kept) == 0 {
				delete(r.visits, k)
			} else {
				r.visits[k] = kept
			}
		}
		r.mu.Unlock()
	}
}

// RateLimit keys by the authenticated email when a prior middleware has set
// it, falling back to client IP. Installed engine-wide it is an IP limiter;
// installed after AuthRequired it budgets per account.
func RateLimit(limiter *InMemoryRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if v, ok := c.Get("email"); ok {
			key = v.(string)
		}
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
