package errx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies turn-level and transport failures so callers can map them
// to user-facing behavior without inspecting error text.
type Kind string

const (
	KindRetryableTransport    Kind = "retryable_transport"
	KindNonRetryableTransport Kind = "non_retryable_transport"
	KindCircuitOpen           Kind = "circuit_open"
	KindRateLimited           Kind = "rate_limited"
	KindToolLoopExceeded      Kind = "tool_loop_exceeded"
)

// TurnError carries a stable error kind for failures that terminate a turn
// or abort a guarded dependency call.
type TurnError struct {
	Kind       Kind
	Dependency string
	Err        error
	// Wait is the time until the next rate-limit token, set for KindRateLimited.
	Wait time.Duration
}

func (e *TurnError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (%s)", e.Kind, e.Dependency)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Dependency, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or "" when err has none.
func KindOf(err error) Kind {
	var te *TurnError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// CircuitOpen reports that the named dependency's breaker rejected the call.
func CircuitOpen(dependency string) *TurnError {
	return &TurnError{Kind: KindCircuitOpen, Dependency: dependency}
}

// RateLimited reports that no token was available; wait is until the next one.
func RateLimited(dependency string, wait time.Duration) *TurnError {
	return &TurnError{Kind: KindRateLimited, Dependency: dependency, Wait: wait}
}

// ToolLoopExceeded reports that the orchestration loop ran out of iterations.
func ToolLoopExceeded(iterations int) *TurnError {
	return &TurnError{
		Kind: KindToolLoopExceeded,
		Err:  fmt.Errorf("no final answer after %d iterations", iterations),
	}
}

// Retryable marks err as a transient transport failure for the named dependency.
func Retryable(dependency string, err error) *TurnError {
	return &TurnError{Kind: KindRetryableTransport, Dependency: dependency, Err: err}
}

// NonRetryable marks err as a permanent transport failure for the named dependency.
func NonRetryable(dependency string, err error) *TurnError {
	return &TurnError{Kind: KindNonRetryableTransport, Dependency: dependency, Err: err}
}

// retryablePatterns match provider error text for failures worth retrying:
// timeouts, connection problems, throttling, and server-side errors.
var retryablePatterns = []string{
	"timeout",
	"deadline exceeded",
	"connection refused",
	"connection reset",
	"no such host",
	"broken pipe",
	"status 429",
	"code 429",
	"too many requests",
	"rate_limit",
	"status 500",
	"status 502",
	"status 503",
	"status 504",
	"internal server error",
	"service unavailable",
	"bad gateway",
	"overloaded",
}

// IsRetryable reports whether err should be retried by the resilience layer.
// Errors already classified keep their classification; unclassified errors
// are matched against known transient provider failure patterns.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindRetryableTransport:
		return true
	case KindNonRetryableTransport, KindCircuitOpen, KindRateLimited, KindToolLoopExceeded:
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	lower := strings.ToLower(err.Error())
	for _, p := range retryablePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
