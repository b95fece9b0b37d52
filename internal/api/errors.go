package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-completion/internal/generation"
)

// StatusClientClosedRequest is reported when the caller went away before the
// invocation finished. Nothing is written to a closed connection, but the
// status is still logged.
const StatusClientClosedRequest = 499

// MapErrorToStatusCode maps invocation errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, generation.ErrEmptyPrompt):
		return http.StatusBadRequest

	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// The last candidate hit its token limit
	case errors.Is(err, generation.ErrCapacityExceeded):
		return http.StatusServiceUnavailable

	// The model kept returning unusable JSON
	case errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrInvalidConfig),
		errors.Is(err, generation.ErrNoCandidates):
		return http.StatusInternalServerError

	case errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Invocation
// errors are described by kind and candidate, never by the upstream text.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var invErr *generation.InvocationError
	candidate := ""
	if errors.As(err, &invErr) {
		candidate = invErr.LastCandidate
	}

	switch {
	case errors.Is(err, generation.ErrEmptyPrompt):
		return "Prompt is required"

	case errors.Is(err, context.Canceled):
		return "Request cancelled"

	case errors.Is(err, context.DeadlineExceeded):
		return "Generation timed out"

	case errors.Is(err, generation.ErrCapacityExceeded):
		if candidate != "" {
			return fmt.Sprintf("Prompt exceeds the token limit of every model (last tried %s)", candidate)
		}
		return "Prompt exceeds the model token limit"

	case errors.Is(err, generation.ErrInvalidResponse):
		if candidate != "" {
			return fmt.Sprintf("Model %s did not return a valid JSON object", candidate)
		}
		return "Model did not return a valid JSON object"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Content was blocked by safety filters"

	case errors.Is(err, generation.ErrInvalidConfig),
		errors.Is(err, generation.ErrNoCandidates):
		return "Generation is not configured"

	case errors.Is(err, generation.ErrGenerationFailed):
		return "Generation failed"

	default:
		return "An unexpected error occurred"
	}
}

// FailureKind returns the taxonomy name reported alongside an error
// response.
func FailureKind(err error) string {
	var invErr *generation.InvocationError
	if errors.As(err, &invErr) {
		return invErr.Kind.String()
	}
	return generation.Classify(err).String()
}

// SanitizeValidationError turns a validator error into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	first := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", first.Field(), getValidationTagMessage(first.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
