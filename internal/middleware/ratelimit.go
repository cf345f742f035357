package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per client in fixed windows. A bucket is one
// counter plus its reset deadline, so memory stays bounded by the number
// of distinct clients seen in the current window.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	r := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go r.sweep()
	return r
}

// Allow counts a request against key's current window. retryAt is when
// the window resets; only meaningful when allowed is false.
func (r *RateLimiter) Allow(key string) (allowed bool, retryAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	b, ok := r.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(r.window)}
		r.buckets[key] = b
	}
	if b.count >= r.limit {
		return false, b.resetAt
	}
	b.count++
	return true, b.resetAt
}

// sweep drops buckets from past windows.
func (r *RateLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		r.mu.Lock()
		now := time.Now()
		for k, b := range r.buckets {
			if now.After(b.resetAt) {
				delete(r.buckets, k)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimit limits by client IP. The 429 carries Retry-After and the
// request id so a throttled client can report something actionable.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAt := limiter.Allow(c.ClientIP())
		if !allowed {
			wait := int(time.Until(retryAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(wait))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "rate limit exceeded",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
