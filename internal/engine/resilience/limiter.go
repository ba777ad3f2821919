// Package resilience guards every outbound call to a named dependency with
// a token-bucket rate limiter, a circuit breaker, and retry with backoff.
// State is owned by an injected Governor instance, never by package globals,
// so tests construct isolated instances and production chooses the sharing
// scope explicitly.
package resilience

import (
	"context"
	"sync"
	"time"
)

// TokenBucket refills continuously at perMinute/60 tokens per second up to
// burst capacity. One call attempt consumes one token.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	burst      float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
}

// NewTokenBucket creates a full bucket.
func NewTokenBucket(perMinute, burst float64) *TokenBucket {
	if perMinute <= 0 {
		perMinute = 60
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		tokens:     burst,
		burst:      burst,
		refillRate: perMinute / 60.0,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// refillLocked adds tokens for elapsed time, capped at burst.
func (b *TokenBucket) refillLocked() {
	now := b.now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.burst {
			b.tokens = b.burst
		}
	}
	b.lastRefill = now
}

// TryAcquire consumes one token when available. On failure it reports the
// exact wait until the next token.
func (b *TokenBucket) TryAcquire() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	return false, wait
}

// Acquire blocks until a token is available or ctx is done. Each wake-up
// re-checks availability so two waiters never spend the same token.
func (b *TokenBucket) Acquire(ctx context.Context) error {
	for {
		ok, wait := b.TryAcquire()
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Available returns the current token count after refill.
func (b *TokenBucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refillLocked()
	return b.tokens
}
