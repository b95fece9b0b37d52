package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-completion/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
		expectedKind    string
	}{
		{
			name:            "nil error",
			err:             nil,
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "An unexpected error occurred",
			expectedKind:    "other",
		},
		{
			name: "empty prompt",
			err: &generation.InvocationError{
				Message: generation.ErrEmptyPrompt.Error(),
				Err:     generation.ErrEmptyPrompt,
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Prompt is required",
			expectedKind:    "other",
		},
		{
			name: "capacity exhausted on last candidate",
			err: &generation.InvocationError{
				Message:       "model gemini-2.5-pro could not handle the request size: token limit exceeded",
				LastCandidate: "gemini-2.5-pro",
				Kind:          generation.KindCapacityExceeded,
			},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedMessage: "Prompt exceeds the token limit of every model (last tried gemini-2.5-pro)",
			expectedKind:    "capacity_exceeded",
		},
		{
			name: "structural failure",
			err: &generation.InvocationError{
				Message:       "model gemini-2.0-flash-lite returned an invalid structured response",
				LastCandidate: "gemini-2.0-flash-lite",
				Kind:          generation.KindStructuralInvalid,
			},
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Model gemini-2.0-flash-lite did not return a valid JSON object",
			expectedKind:    "structural_invalid",
		},
		{
			name: "upstream failure",
			err: &generation.InvocationError{
				Message:       "generation with model m failed: Error 500",
				LastCandidate: "m",
				Kind:          generation.KindOther,
				Err:           fmt.Errorf("%w: Error 500", generation.ErrGenerationFailed),
			},
			expectedStatus:  http.StatusBadGateway,
			expectedMessage: "Generation failed",
			expectedKind:    "other",
		},
		{
			name: "content blocked",
			err: &generation.InvocationError{
				Message: "generation with model m failed: blocked",
				Kind:    generation.KindOther,
				Err:     fmt.Errorf("%w: safety", generation.ErrContentBlocked),
			},
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Content was blocked by safety filters",
			expectedKind:    "other",
		},
		{
			name: "deadline exceeded",
			err: &generation.InvocationError{
				Message: "generation with model m failed: context deadline exceeded",
				Kind:    generation.KindOther,
				Err:     context.DeadlineExceeded,
			},
			expectedStatus:  http.StatusGatewayTimeout,
			expectedMessage: "Generation timed out",
			expectedKind:    "other",
		},
		{
			name: "cancelled",
			err: &generation.InvocationError{
				Message: "generation with model m failed: context canceled",
				Kind:    generation.KindOther,
				Err:     context.Canceled,
			},
			expectedStatus:  StatusClientClosedRequest,
			expectedMessage: "Request cancelled",
			expectedKind:    "other",
		},
		{
			name:            "study payload failed validation",
			err:             &generation.InvalidStructureError{Reason: "missing answer"},
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Model did not return a valid JSON object",
			expectedKind:    "structural_invalid",
		},
		{
			name:            "unknown error",
			err:             errors.New("boom"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "An unexpected error occurred",
			expectedKind:    "other",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.expectedMessage, GetSafeErrorMessage(tc.err))
			assert.Equal(t, tc.expectedKind, FailureKind(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type request struct {
		Prompt string `validate:"required"`
	}

	err := validator.New().Struct(request{})
	require.Error(t, err)

	assert.Equal(t, "Invalid Prompt: required field", SanitizeValidationError(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
