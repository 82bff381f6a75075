package proxy

import (
	"math"
	"time"
)

// RetryPolicy configures backoff between upstream attempts.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
}

// DefaultRetryPolicy returns 4 attempts with delays of 5s, 20s and 80s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  4,
		InitialDelay: 5 * time.Second,
		Multiplier:   4,
	}
}

func (p RetryPolicy) normalize() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialDelay < 0 {
		p.InitialDelay = def.InitialDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// ShouldRetry reports whether another attempt follows the given number of
// failed attempts.
func (p RetryPolicy) ShouldRetry(attempts int) bool {
	return attempts < p.MaxAttempts
}

// Delay returns the wait after the given failed attempt (1-based):
// InitialDelay * Multiplier^(attempt-1).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return p.InitialDelay
	}
	return time.Duration(float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1)))
}

// Schedule lists every delay a call that never succeeds would wait.
func (p RetryPolicy) Schedule() []time.Duration {
	if p.MaxAttempts <= 1 {
		return nil
	}
	delays := make([]time.Duration, 0, p.MaxAttempts-1)
	for attempt := 1; attempt < p.MaxAttempts; attempt++ {
		delays = append(delays, p.Delay(attempt))
	}
	return delays
}

// MaxDuration bounds one relay call that never succeeds, given the per-attempt timeout.
func (p RetryPolicy) MaxDuration(perAttempt time.Duration) time.Duration {
	total := time.Duration(p.MaxAttempts) * perAttempt
	for _, d := range p.Schedule() {
		total += d
	}
	return total
}
