package errx

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindCircuitOpen, KindOf(CircuitOpen("model")))
	assert.Equal(t, KindRateLimited, KindOf(RateLimited("model", time.Second)))
	assert.Equal(t, KindToolLoopExceeded, KindOf(ToolLoopExceeded(5)))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("turn failed: %w", CircuitOpen("codes"))
	assert.Equal(t, KindCircuitOpen, KindOf(wrapped))
}

func TestClassifiedErrorsSkipPatternMatching(t *testing.T) {
	// The message says timeout, but the explicit classification wins.
	err := NonRetryable("model", errors.New("timeout while validating request"))
	assert.False(t, IsRetryable(err))

	assert.True(t, IsRetryable(Retryable("model", errors.New("anything"))))
	assert.False(t, IsRetryable(CircuitOpen("model")))
	assert.False(t, IsRetryable(RateLimited("model", time.Second)))
}

func TestContextErrors(t *testing.T) {
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(context.Canceled))
}

func TestTransientPatterns(t *testing.T) {
	for _, msg := range []string{
		"rpc error: status 429 too many requests",
		"Post \"https://api\": connection refused",
		"status 503 service unavailable",
		"model overloaded, try again later",
	} {
		assert.True(t, IsRetryable(errors.New(msg)), "message: %q", msg)
	}

	for _, msg := range []string{
		"status 400 invalid argument",
		"status 401 unauthorized",
		"malformed request body",
	} {
		assert.False(t, IsRetryable(errors.New(msg)), "message: %q", msg)
	}
}

func TestRateLimitedCarriesWait(t *testing.T) {
	err := RateLimited("model", 750*time.Millisecond)

	var te *TurnError
	require.ErrorAs(t, error(err), &te)
	assert.Equal(t, 750*time.Millisecond, te.Wait)
	assert.Equal(t, "model", te.Dependency)
}
