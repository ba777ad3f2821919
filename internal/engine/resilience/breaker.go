package resilience

import (
	"sync"
	"time"

	logx "github.com/careguide-ai/server/pkg/logger"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed is the normal operating state - requests flow through.
	CircuitClosed CircuitState = iota
	// CircuitOpen means the circuit has tripped - requests are rejected.
	CircuitOpen
	// CircuitHalfOpen is the probing state - a limited number of requests
	// test whether the dependency recovered.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker tracks consecutive failures for one named dependency.
// All transitions happen under the mutex.
type CircuitBreaker struct {
	name             string
	failureThreshold int
	resetTimeout     time.Duration
	halfOpenProbes   int

	mu              sync.Mutex
	state           CircuitState
	failures        int
	probesStarted   int
	probesSucceeded int
	lastFailure     time.Time
	now             func() time.Time
}

// NewCircuitBreaker creates a closed breaker for a named dependency.
func NewCircuitBreaker(name string, failureThreshold int, resetTimeout time.Duration, halfOpenProbes int) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 60 * time.Second
	}
	if halfOpenProbes <= 0 {
		halfOpenProbes = 2
	}
	return &CircuitBreaker{
		name:             name,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		halfOpenProbes:   halfOpenProbes,
		state:            CircuitClosed,
		now:              time.Now,
	}
}

// Allow reports whether a request may proceed. An open breaker whose reset
// timeout has elapsed since the last failure moves to half-open and admits
// probe requests.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailure) >= cb.resetTimeout {
			cb.transitionLocked(CircuitHalfOpen)
			cb.probesStarted = 1
			return true
		}
		return false
	case CircuitHalfOpen:
		if cb.probesStarted < cb.halfOpenProbes {
			cb.probesStarted++
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess advances half-open probing or clears the closed-state
// failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.failures = 0
	case CircuitHalfOpen:
		cb.probesSucceeded++
		if cb.probesSucceeded >= cb.halfOpenProbes {
			cb.transitionLocked(CircuitClosed)
		}
	}
}

// RecordFailure counts a failure, opening the circuit at the threshold.
// Any failure while half-open reopens immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = cb.now()

	switch cb.state {
	case CircuitClosed:
		if cb.failures >= cb.failureThreshold {
			cb.transitionLocked(CircuitOpen)
		}
	case CircuitHalfOpen:
		cb.transitionLocked(CircuitOpen)
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(next CircuitState) {
	if cb.state == next {
		return
	}
	prev := cb.state
	cb.state = next
	cb.probesStarted = 0
	cb.probesSucceeded = 0
	if next == CircuitClosed {
		cb.failures = 0
	}
	logx.Debug().
		Str("dependency", cb.name).
		Str("from", prev.String()).
		Str("to", next.String()).
		Msg("Circuit state change")
}
