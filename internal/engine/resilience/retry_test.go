package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/careguide-ai/server/internal/engine/model"
)

func TestDelayGrowsExponentially(t *testing.T) {
	p := RetryPolicy{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
		Jitter:       0,
	}

	assert.Equal(t, 100*time.Millisecond, p.Delay(0))
	assert.Equal(t, 200*time.Millisecond, p.Delay(1))
	assert.Equal(t, 400*time.Millisecond, p.Delay(2))
}

func TestDelayCapsAtMax(t *testing.T) {
	p := RetryPolicy{
		MaxAttempts:  10,
		InitialDelay: time.Second,
		MaxDelay:     4 * time.Second,
		Multiplier:   2,
		Jitter:       0,
	}

	assert.Equal(t, 4*time.Second, p.Delay(5))
	assert.Equal(t, 4*time.Second, p.Delay(9))
}

func TestJitterStaysWithinBounds(t *testing.T) {
	p := RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
		Jitter:       0.2,
	}

	for i := 0; i < 100; i++ {
		d := p.Delay(0)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}

func TestNewRetryPolicyFillsDefaults(t *testing.T) {
	p := NewRetryPolicy(model.RetryConfig{})

	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, p.InitialDelay)
	assert.Equal(t, 8*time.Second, p.MaxDelay)
	assert.Equal(t, 2.0, p.Multiplier)
	assert.Equal(t, 0.2, p.Jitter)
}

func TestNewRetryPolicyKeepsValidConfig(t *testing.T) {
	p := NewRetryPolicy(model.RetryConfig{
		MaxAttempts:  5,
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Multiplier:   3,
		Jitter:       0.1,
	})

	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, time.Second, p.InitialDelay)
	assert.Equal(t, time.Minute, p.MaxDelay)
	assert.Equal(t, 3.0, p.Multiplier)
	assert.Equal(t, 0.1, p.Jitter)
}
