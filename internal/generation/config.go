package generation

import (
	"fmt"
	"time"
)

// FallbackPolicy decides which failures on a non-last candidate advance the
// orchestrator to the next candidate.
type FallbackPolicy string

const (
	// FallbackOnCapacity advances only on capacity/token-limit failures.
	// Structural and other failures are terminal on the candidate that
	// produced them.
	FallbackOnCapacity FallbackPolicy = "capacity_only"

	// FallbackOnAnyFailure advances on every failure except cancellation.
	FallbackOnAnyFailure FallbackPolicy = "any_failure"
)

// Default client settings.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 500 * time.Millisecond
)

// defaultCandidates is ordered cheapest/fastest first, most capable last.
var defaultCandidates = []string{"gemini-2.0-flash-lite", "gemini-2.5-pro"}

// DefaultCandidates returns a copy of the default model candidate order.
func DefaultCandidates() []string {
	return append([]string(nil), defaultCandidates...)
}

// Config holds the read-only settings of a Client.
type Config struct {
	// Candidates is the ordered list of models tried when a request does
	// not name its own.
	Candidates []string

	// MaxAttempts bounds the attempts per candidate for structured requests.
	// Free-text requests always make exactly one attempt.
	MaxAttempts int

	// RetryDelay is the constant wait between structured attempts.
	RetryDelay time.Duration

	// FallbackPolicy selects which failures trigger fallback.
	FallbackPolicy FallbackPolicy
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Candidates:     DefaultCandidates(),
		MaxAttempts:    DefaultMaxAttempts,
		RetryDelay:     DefaultRetryDelay,
		FallbackPolicy: FallbackOnCapacity,
	}
}

// validate checks values that cannot be defaulted.
func (c Config) validate() error {
	for i, candidate := range c.Candidates {
		if candidate == "" {
			return fmt.Errorf("%w: candidate %d is empty", ErrInvalidConfig, i)
		}
	}

	switch c.FallbackPolicy {
	case "", FallbackOnCapacity, FallbackOnAnyFailure:
	default:
		return fmt.Errorf("%w: unknown fallback policy %q", ErrInvalidConfig, c.FallbackPolicy)
	}

	return nil
}
