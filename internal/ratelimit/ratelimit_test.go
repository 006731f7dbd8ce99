package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(1, 1, true)

	for i := 0; i < 5; i++ {
		result := l.Check("10.0.0.1")
		assert.False(t, result.ShouldBlock)
		assert.Equal(t, "rate_limiting_disabled", result.Reason)
	}
}

func TestLimiter_BurstThenBlock(t *testing.T) {
	l := NewLimiter(0.5, 2, false)

	assert.False(t, l.Check("10.0.0.1").ShouldBlock)
	assert.False(t, l.Check("10.0.0.1").ShouldBlock)

	result := l.Check("10.0.0.1")
	assert.True(t, result.ShouldBlock)
	assert.Equal(t, "rate_limit_active", result.Reason)
	assert.Greater(t, result.RemainingTime, time.Duration(0))
	assert.GreaterOrEqual(t, result.RetryAfterSeconds(), 1)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(0.1, 1, false)

	assert.False(t, l.Check("a").ShouldBlock)
	assert.True(t, l.Check("a").ShouldBlock)
	assert.False(t, l.Check("b").ShouldBlock)
	assert.Equal(t, 2, l.Clients())
}

func TestLimiter_RejectedRequestKeepsTokens(t *testing.T) {
	l := NewLimiter(20, 1, false)

	assert.False(t, l.Check("c").ShouldBlock)
	assert.True(t, l.Check("c").ShouldBlock)

	time.Sleep(80 * time.Millisecond)
	assert.False(t, l.Check("c").ShouldBlock)
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(0.001, 3, false)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !l.Check("shared").ShouldBlock {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, allowed)
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, RateLimitResult{RemainingTime: 10 * time.Millisecond}.RetryAfterSeconds())
	assert.Equal(t, 3, RateLimitResult{RemainingTime: 2100 * time.Millisecond}.RetryAfterSeconds())
}
