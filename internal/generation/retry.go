package generation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scry-completion/internal/redact"
	"github.com/sethvargo/go-retry"
)

// attemptCandidate runs the retry controller against a single candidate.
//
// Structured requests get up to MaxAttempts attempts, separated by RetryDelay,
// and only structural failures are retried. Free-text requests get exactly one
// attempt. Call failures (capacity or otherwise) return immediately.
//
// On success the returned Result has Attempts set to the attempts used on
// this candidate. On failure the AttemptRecord describes the last attempt.
func (c *Client) attemptCandidate(
	ctx context.Context,
	log *slog.Logger,
	candidate string,
	prompt string,
	structured bool,
) (*Result, *AttemptRecord) {
	maxAttempts := 1
	if structured {
		maxAttempts = c.config.MaxAttempts
	}

	backoff := retry.WithMaxRetries(uint64(maxAttempts-1), constantDelay(c.config.RetryDelay))

	var (
		result  *Result
		attempt int
	)
	last := AttemptRecord{Candidate: candidate}

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		last = AttemptRecord{Candidate: candidate, Attempt: attempt}

		log.DebugContext(ctx, "making completion call",
			"candidate", candidate,
			"attempt", attempt,
			"max_attempts", maxAttempts)

		text, err := c.completer.Complete(ctx, CompletionRequest{
			Prompt:     prompt,
			Model:      candidate,
			Structured: structured,
		})
		if err != nil {
			last.Kind = Classify(err)
			last.Reason = err.Error()
			last.Err = err

			log.WarnContext(ctx, "completion call failed",
				"candidate", candidate,
				"attempt", attempt,
				"failure_kind", last.Kind.String(),
				"error", redact.Error(err))
			return err
		}

		if !structured {
			last.Succeeded = true
			result = &Result{Text: strings.TrimSpace(text), Candidate: candidate, Attempts: attempt}
			return nil
		}

		outcome := Validate(text)
		if outcome.Valid {
			last.Succeeded = true
			result = &Result{Text: outcome.Text, Object: outcome.Object, Candidate: candidate, Attempts: attempt}
			return nil
		}

		structErr := &InvalidStructureError{Reason: outcome.Reason}
		last.Kind = KindStructuralInvalid
		last.Reason = outcome.Reason
		last.Err = structErr

		log.WarnContext(ctx, "structured response failed validation",
			"candidate", candidate,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"reason", outcome.Reason,
			"response_length", len(text))
		return retry.RetryableError(structErr)
	})

	if err == nil {
		return result, nil
	}

	// retry.Do returns the context error when cancelled while waiting
	// between attempts; the last record still describes the prior attempt.
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) && !errors.Is(last.Err, ctxErr) {
		last.Kind = KindOther
		last.Reason = "request cancelled: " + ctxErr.Error()
		last.Err = ctxErr
	}

	return nil, &last
}

// constantDelay waits d between attempts. Unlike retry.NewConstant it
// accepts a zero delay.
func constantDelay(d time.Duration) retry.Backoff {
	return retry.BackoffFunc(func() (time.Duration, bool) {
		return d, false
	})
}
