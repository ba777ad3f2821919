package resilience

import (
	"context"
	"sync"
	"time"

	errx "github.com/careguide-ai/server/internal/core/error"
	"github.com/careguide-ai/server/internal/engine/model"
	logx "github.com/careguide-ai/server/pkg/logger"
)

// Governor owns the per-dependency rate limiters and circuit breakers and
// applies the retry policy around guarded calls. One Governor instance is
// shared by all conversations; guards for a dependency are created lazily
// on first use.
type Governor struct {
	rateLimit model.RateLimitConfig
	breaker   model.BreakerConfig
	retry     RetryPolicy

	mu     sync.Mutex // guards the map only, never held across calls
	guards map[string]*guard
}

type guard struct {
	bucket  *TokenBucket
	breaker *CircuitBreaker
}

// NewGovernor creates an isolated governor. Tests construct their own;
// production wires exactly one into every caller.
func NewGovernor(rate model.RateLimitConfig, breaker model.BreakerConfig, retry model.RetryConfig) *Governor {
	return &Governor{
		rateLimit: rate,
		breaker:   breaker,
		retry:     NewRetryPolicy(retry),
		guards:    make(map[string]*guard),
	}
}

func (g *Governor) guardFor(dependency string) *guard {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gd, ok := g.guards[dependency]; ok {
		return gd
	}
	gd := &guard{
		bucket:  NewTokenBucket(g.rateLimit.PerMinute, g.rateLimit.Burst),
		breaker: NewCircuitBreaker(dependency, g.breaker.FailureThreshold, g.breaker.ResetTimeout, g.breaker.HalfOpenProbes),
	}
	g.guards[dependency] = gd
	return gd
}

// Breaker exposes the breaker for a dependency, mainly for tests and
// diagnostics.
func (g *Governor) Breaker(dependency string) *CircuitBreaker {
	return g.guardFor(dependency).breaker
}

// Bucket exposes the token bucket for a dependency.
func (g *Governor) Bucket(dependency string) *TokenBucket {
	return g.guardFor(dependency).bucket
}

// Execute runs fn under the dependency's guards, waiting for rate-limit
// tokens. Composition order per attempt: circuit check, token acquisition,
// call, success/failure recording, then retry per policy. Every retry
// attempt re-checks both guards; neither is ever bypassed.
func (g *Governor) Execute(ctx context.Context, dependency string, fn func(ctx context.Context) error) error {
	return g.execute(ctx, dependency, fn, true)
}

// ExecuteNoWait is Execute with fail-fast token acquisition: when no token
// is available the call fails immediately with the exact wait time.
func (g *Governor) ExecuteNoWait(ctx context.Context, dependency string, fn func(ctx context.Context) error) error {
	return g.execute(ctx, dependency, fn, false)
}

func (g *Governor) execute(ctx context.Context, dependency string, fn func(ctx context.Context) error, wait bool) error {
	gd := g.guardFor(dependency)

	var lastErr error
	for attempt := 0; attempt < g.retry.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !gd.breaker.Allow() {
			return errx.CircuitOpen(dependency)
		}
		if wait {
			if err := gd.bucket.Acquire(ctx); err != nil {
				return err
			}
		} else {
			ok, waitFor := gd.bucket.TryAcquire()
			if !ok {
				return errx.RateLimited(dependency, waitFor)
			}
		}

		err := fn(ctx)
		if err == nil {
			gd.breaker.RecordSuccess()
			return nil
		}
		gd.breaker.RecordFailure()

		if !errx.IsRetryable(err) {
			return err
		}
		lastErr = err

		if attempt == g.retry.MaxAttempts-1 {
			break
		}
		delay := g.retry.Delay(attempt)
		logx.Debug().
			Str("dependency", dependency).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Err(err).
			Msg("Retrying guarded call")
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return lastErr
}
