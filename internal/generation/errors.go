package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when an invocation fails for any reason.
	// Every InvocationError matches it with errors.Is.
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrCapacityExceeded signals that a prompt or its expected output exceeded
	// the token limits of a model candidate
	ErrCapacityExceeded = errors.New("model token limit exceeded")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the client configuration is invalid
	ErrInvalidConfig = errors.New("invalid generation configuration")

	// ErrEmptyPrompt is returned when an invocation is attempted without a prompt
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrNoCandidates is returned when an invocation has no model candidates to try
	ErrNoCandidates = errors.New("no model candidates configured")
)

// FailureKind classifies a failed attempt. It drives the orchestrator's
// decision between retrying, falling back and giving up.
type FailureKind int

const (
	// KindOther is an opaque upstream failure (network, auth, safety, cancellation).
	KindOther FailureKind = iota

	// KindCapacityExceeded is a token-limit failure; it triggers fallback.
	KindCapacityExceeded

	// KindStructuralInvalid is a response that failed JSON object validation;
	// it triggers an in-candidate retry.
	KindStructuralInvalid
)

// String returns the snake_case name of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindStructuralInvalid:
		return "structural_invalid"
	default:
		return "other"
	}
}

// AttemptRecord describes the outcome of one completion attempt.
// Records only live for the duration of a single invocation.
type AttemptRecord struct {
	Candidate string
	Attempt   int
	Succeeded bool
	Kind      FailureKind
	Reason    string
	Err       error
}

// InvocationError is the single terminal failure returned by Client.Invoke.
// Message is suitable for direct display; the remaining fields give enough
// context to log the failure.
type InvocationError struct {
	Message       string
	LastCandidate string
	LastReason    string
	Kind          FailureKind
	Attempts      int
	Err           error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause of the failure, if any.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Is reports whether the invocation error matches one of the package
// sentinels implied by its kind.
func (e *InvocationError) Is(target error) bool {
	switch target {
	case ErrGenerationFailed:
		return true
	case ErrCapacityExceeded:
		return e.Kind == KindCapacityExceeded
	case ErrInvalidResponse:
		return e.Kind == KindStructuralInvalid
	}
	return false
}

// newInvocationError builds the terminal error from the last failed attempt.
func newInvocationError(rec AttemptRecord, attempts int) *InvocationError {
	var message string
	switch rec.Kind {
	case KindCapacityExceeded:
		message = fmt.Sprintf("model %s could not handle the request size: %s", rec.Candidate, rec.Reason)
	case KindStructuralInvalid:
		message = fmt.Sprintf("model %s returned an invalid structured response after %d attempt(s): %s",
			rec.Candidate, rec.Attempt, rec.Reason)
	default:
		message = fmt.Sprintf("generation with model %s failed: %s", rec.Candidate, rec.Reason)
	}

	return &InvocationError{
		Message:       message,
		LastCandidate: rec.Candidate,
		LastReason:    rec.Reason,
		Kind:          rec.Kind,
		Attempts:      attempts,
		Err:           rec.Err,
	}
}

// InvalidStructureError is returned by ParseStructured when text does not
// hold a JSON object of the expected shape.
type InvalidStructureError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *InvalidStructureError) Error() string {
	return "invalid structure: " + e.Reason
}

// Unwrap returns the shape validator's error, if any.
func (e *InvalidStructureError) Unwrap() error {
	return e.Err
}

// Is makes every InvalidStructureError match ErrInvalidResponse.
func (e *InvalidStructureError) Is(target error) bool {
	return target == ErrInvalidResponse
}
