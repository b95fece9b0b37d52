package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ShapeValidator checks a parsed JSON object against a caller-specific shape.
// It returns a non-nil error describing the first violation.
type ShapeValidator func(object map[string]any) error

// ParseStructured validates text with the sanitizer, runs the optional shape
// validators on the parsed object and decodes the canonical text into T.
// Every failure is an *InvalidStructureError.
func ParseStructured[T any](text string, validators ...ShapeValidator) (T, error) {
	var zero T

	outcome := Validate(text)
	if !outcome.Valid {
		return zero, &InvalidStructureError{Reason: outcome.Reason}
	}

	for _, validate := range validators {
		if validate == nil {
			continue
		}
		if err := validate(outcome.Object); err != nil {
			return zero, &InvalidStructureError{Reason: err.Error(), Err: err}
		}
	}

	var out T
	if err := json.Unmarshal([]byte(outcome.Text), &out); err != nil {
		return zero, &InvalidStructureError{Reason: reasonParsePrefix + err.Error(), Err: err}
	}

	return out, nil
}

// RequireKeys returns a ShapeValidator that fails when any of keys is absent
// from the object.
func RequireKeys(keys ...string) ShapeValidator {
	return func(object map[string]any) error {
		var missing []string
		for _, key := range keys {
			if _, ok := object[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
		}
		return nil
	}
}
