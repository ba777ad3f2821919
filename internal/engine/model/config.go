package model

import "time"

// ================ Config ================

type ModelConfig struct {
	Name        string  `envconfig:"MODEL_NAME" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"MODEL_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"MODEL_TEMPERATURE" default:"0.3"`
}

type LoopConfig struct {
	MaxIterations    int           `envconfig:"LOOP_MAX_ITERATIONS" default:"5"`
	IterationTimeout time.Duration `envconfig:"LOOP_ITERATION_TIMEOUT" default:"60s"`
	MaxToolAttempts  int           `envconfig:"LOOP_MAX_TOOL_ATTEMPTS" default:"3"`
}

type RateLimitConfig struct {
	PerMinute float64 `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
	Burst     float64 `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

type RetryConfig struct {
	MaxAttempts  int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	InitialDelay time.Duration `envconfig:"RETRY_INITIAL_DELAY" default:"500ms"`
	MaxDelay     time.Duration `envconfig:"RETRY_MAX_DELAY" default:"8s"`
	Multiplier   float64       `envconfig:"RETRY_MULTIPLIER" default:"2"`
	Jitter       float64       `envconfig:"RETRY_JITTER" default:"0.2"`
}

type BreakerConfig struct {
	FailureThreshold int           `envconfig:"BREAKER_FAILURE_THRESHOLD" default:"5"`
	ResetTimeout     time.Duration `envconfig:"BREAKER_RESET_TIMEOUT" default:"60s"`
	HalfOpenProbes   int           `envconfig:"BREAKER_HALF_OPEN_PROBES" default:"2"`
}

type CacheConfig struct {
	TTL        time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	MaxEntries int           `envconfig:"CACHE_MAX_ENTRIES" default:"512"`
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"SESSION_TTL" default:"15m"`
}
