package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-completion/internal/redact"
)

// InvokeRequest is one call through the client.
type InvokeRequest struct {
	// Prompt is the text sent to every candidate.
	Prompt string

	// Structured requires the response to be a single JSON object.
	Structured bool

	// Candidates overrides the configured candidate order when non-empty.
	Candidates []string
}

// Result is a successful invocation.
type Result struct {
	// Text is the cleaned JSON object text for structured requests, or the
	// trimmed raw text otherwise.
	Text string

	// Object is the parsed JSON object; nil for free-text requests.
	Object map[string]any

	// Candidate is the model that produced the result.
	Candidate string

	// Attempts counts every completion call made across all candidates.
	Attempts int
}

// Client is the structured completion client. It holds only read-only
// configuration and is safe for concurrent use.
type Client struct {
	completer Completer
	config    Config
	logger    *slog.Logger
}

// NewClient creates a Client over the given completion capability.
// Missing candidates, a non-positive MaxAttempts, a negative RetryDelay and an
// empty FallbackPolicy fall back to the defaults from DefaultConfig. A zero
// RetryDelay retries immediately.
func NewClient(completer Completer, config Config, logger *slog.Logger) (*Client, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	if len(config.Candidates) == 0 {
		config.Candidates = DefaultCandidates()
	} else {
		config.Candidates = append([]string(nil), config.Candidates...)
	}

	if config.MaxAttempts < 1 {
		logger.Warn("invalid max attempts value, using default",
			"max_attempts", config.MaxAttempts,
			"default", DefaultMaxAttempts)
		config.MaxAttempts = DefaultMaxAttempts
	}

	if config.RetryDelay < 0 {
		logger.Warn("invalid retry delay value, using default",
			"retry_delay", config.RetryDelay,
			"default", DefaultRetryDelay)
		config.RetryDelay = DefaultRetryDelay
	}

	if config.FallbackPolicy == "" {
		config.FallbackPolicy = FallbackOnCapacity
	}

	return &Client{
		completer: completer,
		config:    config,
		logger:    logger,
	}, nil
}

// Candidates returns a copy of the client's default candidate order.
func (c *Client) Candidates() []string {
	return append([]string(nil), c.config.Candidates...)
}

// Invoke runs the fallback orchestrator: candidates are tried strictly in
// order and the first success is returned. A capacity failure on a non-last
// candidate advances to the next one; every other failure is terminal unless
// the client was configured with FallbackOnAnyFailure. All failures are
// reported as a single *InvocationError.
func (c *Client) Invoke(ctx context.Context, req InvokeRequest) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, &InvocationError{Message: ErrEmptyPrompt.Error(), Kind: KindOther, Err: ErrEmptyPrompt}
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates = c.config.Candidates
	}
	if len(candidates) == 0 {
		return nil, &InvocationError{Message: ErrNoCandidates.Error(), Kind: KindOther, Err: ErrNoCandidates}
	}

	log := c.logger.With(
		"invocation_id", uuid.NewString(),
		"structured", req.Structured)

	log.InfoContext(ctx, "starting invocation",
		"candidates", candidates,
		"prompt_length", len(req.Prompt))

	totalAttempts := 0
	for i, candidate := range candidates {
		result, failure := c.attemptCandidate(ctx, log, candidate, req.Prompt, req.Structured)
		if failure == nil {
			totalAttempts += result.Attempts
			result.Attempts = totalAttempts
			log.InfoContext(ctx, "invocation succeeded",
				"candidate", candidate,
				"attempts", totalAttempts)
			return result, nil
		}
		totalAttempts += failure.Attempt

		isLast := i == len(candidates)-1
		if !isLast && c.shouldFallback(ctx, failure) {
			log.WarnContext(ctx, "falling back to next candidate",
				"from_candidate", candidate,
				"to_candidate", candidates[i+1],
				"failure_kind", failure.Kind.String(),
				"reason", redact.String(failure.Reason))
			continue
		}

		invErr := newInvocationError(*failure, totalAttempts)
		log.ErrorContext(ctx, "invocation failed",
			"candidate", candidate,
			"failure_kind", failure.Kind.String(),
			"attempts", totalAttempts,
			"error", redact.String(invErr.Message))
		return nil, invErr
	}

	// Unreachable: the loop returns on the last candidate.
	return nil, &InvocationError{Message: ErrNoCandidates.Error(), Kind: KindOther, Err: ErrNoCandidates}
}

// InvokeText is Invoke reduced to its text: the cleaned JSON object text
// for structured requests, the trimmed response otherwise.
func (c *Client) InvokeText(ctx context.Context, prompt string, structured bool, candidates ...string) (string, error) {
	result, err := c.Invoke(ctx, InvokeRequest{
		Prompt:     prompt,
		Structured: structured,
		Candidates: candidates,
	})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// shouldFallback applies the fallback policy to a failed candidate.
// Cancellation never falls back.
func (c *Client) shouldFallback(ctx context.Context, failure *AttemptRecord) bool {
	if ctx.Err() != nil {
		return false
	}
	if failure.Kind == KindCapacityExceeded {
		return true
	}
	return c.config.FallbackPolicy == FallbackOnAnyFailure
}
