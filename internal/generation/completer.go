package generation

import "context"

// CompletionRequest is a single raw completion call against one model.
type CompletionRequest struct {
	// Prompt is the full text sent to the model.
	Prompt string

	// Model identifies the candidate backend to call.
	Model string

	// Structured asks the backend for JSON output when it supports a
	// JSON response mode. The returned text is validated either way.
	Structured bool
}

// Completer is the raw text-generation capability the client makes reliable.
// It serves as a boundary between the application core and external LLM
// services, following the hexagonal architecture pattern.
//
// Implementations should wrap ErrCapacityExceeded (or at least mention the
// token limit in the error message) when a prompt is too large for the model,
// so the client can fall back to a larger candidate.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompleterFunc adapts an ordinary function to the Completer interface.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (string, error)

// Complete calls f(ctx, req).
func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}
