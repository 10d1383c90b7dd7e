// Package retry provides capped exponential backoff delays with jitter.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Config holds backoff configuration for one retry loop.
type Config struct {
	// MaxTries is the number of delays the sequence yields.
	MaxTries int
	// Base is the first delay.
	Base time.Duration
	// Cap is the upper bound for every delay.
	Cap time.Duration
	// Factor is the exponential growth multiplier.
	Factor float64
	// JitterSpan is the width of the uniform random addition before sleeping.
	JitterSpan time.Duration
}

// DefaultConfig matches the fetch loops' standard timing: 1s, 2s, 4s.
func DefaultConfig() Config {
	return Config{
		MaxTries:   3,
		Base:       1 * time.Second,
		Cap:        16 * time.Second,
		Factor:     2.0,
		JitterSpan: 500 * time.Millisecond,
	}
}

// Sequence returns the finite delay sequence for cfg: exactly MaxTries values,
// the first equal to min(Base, Cap), each subsequent min(previous*Factor, Cap).
// No jitter is applied here; callers add it via Sleep before sleeping.
func Sequence(cfg Config) []time.Duration {
	if cfg.MaxTries <= 0 {
		return nil
	}
	delays := make([]time.Duration, 0, cfg.MaxTries)
	delay := cfg.Base
	for i := 0; i < cfg.MaxTries; i++ {
		if delay > cfg.Cap {
			delay = cfg.Cap
		}
		delays = append(delays, delay)
		delay = time.Duration(float64(delay) * cfg.Factor)
	}
	return delays
}

// Sleep blocks for base plus a uniform random jitter in [0, span],
// returning early if the context is canceled. A negative span counts as zero.
func Sleep(ctx context.Context, base, span time.Duration) error {
	if span < 0 {
		span = 0
	}
	d := base
	if span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryableStatus reports whether an HTTP status code is worth retrying.
func RetryableStatus(code int) bool {
	switch code {
	case 429, 500, 503:
		return true
	}
	return false
}
