package generation

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Rejection reasons reported by Validate.
const (
	ReasonEmptyResponse = "empty response"
	ReasonNotAnObject   = "not an object"
	ReasonNotJSONObject = "response must be a JSON object, not an array or primitive"

	// reasonParsePrefix prefixes the parser's own message on syntax errors.
	reasonParsePrefix = "JSON parsing error: "
)

const codeFence = "```"

// ValidationOutcome is the tagged result of Validate. When Valid is true,
// Object holds the parsed JSON object and Text the canonical JSON text it was
// parsed from. Otherwise Reason explains the rejection.
type ValidationOutcome struct {
	Valid  bool
	Object map[string]any
	Text   string
	Reason string
}

// Sanitize removes the wrapping artifacts models commonly add around JSON:
// surrounding whitespace, Markdown code fences with an optional language tag,
// prose before the first '{' or after the last '}', and C0/C1 control
// characters. The result is stable: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	text := raw
	for {
		cleaned := sanitizeOnce(text)
		// Each pass only removes characters, so this terminates.
		if cleaned == text {
			return cleaned
		}
		text = cleaned
	}
}

func sanitizeOnce(raw string) string {
	text := strings.TrimSpace(raw)
	text = stripCodeFences(text)
	text = strings.TrimSpace(text)

	if start := strings.IndexByte(text, '{'); start >= 0 {
		if end := strings.LastIndexByte(text, '}'); end > start {
			text = text[start : end+1]
		}
	}

	text = stripControlCharacters(text)
	return strings.TrimSpace(text)
}

// stripCodeFences removes an opening ``` fence (plus language tag) and a
// trailing closing fence.
func stripCodeFences(text string) string {
	if strings.HasPrefix(text, codeFence) {
		text = strings.TrimPrefix(text, codeFence)
		text = strings.TrimLeftFunc(text, isLanguageTagRune)
	}
	return strings.TrimSuffix(text, codeFence)
}

func isLanguageTagRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '+')
}

// stripControlCharacters drops every code point in the C0 (U+0000-U+001F),
// DEL and C1 (U+0080-U+009F) ranges.
func stripControlCharacters(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// Validate sanitizes raw model output and checks that it is a single JSON
// object. It never panics and never returns an error: every input yields a
// ValidationOutcome.
func Validate(raw string) ValidationOutcome {
	text := Sanitize(raw)

	if text == "" {
		return invalid(ReasonEmptyResponse)
	}

	// An opening brace without a matching close means the object was cut
	// off, typically by an output token limit.
	if strings.HasPrefix(text, "{") && !strings.HasSuffix(text, "}") {
		return invalid(ReasonNotAnObject)
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return invalid(reasonParsePrefix + err.Error())
	}

	object, ok := parsed.(map[string]any)
	if !ok || object == nil {
		return invalid(ReasonNotJSONObject)
	}

	return ValidationOutcome{
		Valid:  true,
		Object: object,
		Text:   text,
	}
}

func invalid(reason string) ValidationOutcome {
	return ValidationOutcome{Reason: reason}
}
