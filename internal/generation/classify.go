package generation

import (
	"context"
	"errors"
	"strings"
)

// capacityQualifiers are the words that, next to "token", mark an error
// message as a token-limit failure.
var capacityQualifiers = []string{"limit", "exceeded", "maximum"}

// Classify maps a completion failure to its FailureKind.
//
// An error is KindCapacityExceeded when it wraps ErrCapacityExceeded or when
// its message (case-insensitive) contains "token" together with "limit",
// "exceeded" or "maximum". Validation failures are KindStructuralInvalid.
// Context cancellation and everything else is KindOther.
func Classify(err error) FailureKind {
	if err == nil {
		return KindOther
	}

	if errors.Is(err, ErrCapacityExceeded) {
		return KindCapacityExceeded
	}

	var structErr *InvalidStructureError
	if errors.As(err, &structErr) {
		return KindStructuralInvalid
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindOther
	}

	if IsCapacityMessage(err.Error()) {
		return KindCapacityExceeded
	}

	return KindOther
}

// IsCapacityMessage reports whether an upstream error message describes a
// token-limit failure.
func IsCapacityMessage(message string) bool {
	msg := strings.ToLower(message)
	if !strings.Contains(msg, "token") {
		return false
	}
	for _, qualifier := range capacityQualifiers {
		if strings.Contains(msg, qualifier) {
			return true
		}
	}
	return false
}
