package ratelimit

import (
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// idleExpiry is how long a client's bucket survives without requests
const idleExpiry = 10 * time.Minute

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	ShouldBlock   bool
	RemainingTime time.Duration
	Reason        string
}

// Limiter hands out one token bucket per client key. Buckets of clients that
// go quiet are dropped by the cache janitor.
type Limiter struct {
	clients  *gocache.Cache
	limit    rate.Limit
	burst    int
	disabled bool
}

// NewLimiter creates a limiter allowing rps sustained requests per client
// with bursts of up to burst
func NewLimiter(rps float64, burst int, disabled bool) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		clients:  gocache.New(idleExpiry, idleExpiry),
		limit:    rate.Limit(rps),
		burst:    burst,
		disabled: disabled,
	}
}

// Check consumes a token for key when one is available
func (l *Limiter) Check(key string) RateLimitResult {
	if l.disabled {
		return RateLimitResult{
			ShouldBlock: false,
			Reason:      "rate_limiting_disabled",
		}
	}

	reservation := l.bucket(key).Reserve()
	if !reservation.OK() {
		return RateLimitResult{
			ShouldBlock: true,
			Reason:      "burst_exceeded",
		}
	}

	delay := reservation.Delay()
	if delay > 0 {
		// Don't hold the token; the caller is rejected instead of queued
		reservation.Cancel()
		return RateLimitResult{
			ShouldBlock:   true,
			RemainingTime: delay,
			Reason:        "rate_limit_active",
		}
	}

	return RateLimitResult{
		ShouldBlock: false,
		Reason:      "rate_limit_passed",
	}
}

// RetryAfterSeconds rounds a wait up to whole seconds for a Retry-After header
func (r RateLimitResult) RetryAfterSeconds() int {
	return int(math.Max(1, math.Ceil(r.RemainingTime.Seconds())))
}

// Clients returns the number of tracked client buckets
func (l *Limiter) Clients() int {
	return l.clients.ItemCount()
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	if v, ok := l.clients.Get(key); ok {
		limiter := v.(*rate.Limiter)
		l.clients.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	if err := l.clients.Add(key, limiter, gocache.DefaultExpiration); err != nil {
		// Lost a race with another request from the same client
		if v, ok := l.clients.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}
