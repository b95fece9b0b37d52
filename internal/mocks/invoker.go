package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-completion/internal/generation"
)

// MockInvoker stands in for generation.Client in handler tests.
type MockInvoker struct {
	// InvokeFn allows test cases to mock the Invoke behavior
	InvokeFn func(ctx context.Context, req generation.InvokeRequest) (*generation.Result, error)

	// Default response values
	Result *generation.Result
	Err    error

	mu       sync.Mutex
	requests []generation.InvokeRequest
}

// Invoke records the request and returns the configured outcome.
func (m *MockInvoker) Invoke(ctx context.Context, req generation.InvokeRequest) (*generation.Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, req)
	}
	return m.Result, m.Err
}

// Requests returns a copy of every request received.
func (m *MockInvoker) Requests() []generation.InvokeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.InvokeRequest(nil), m.requests...)
}

// InvokeText runs Invoke with the given arguments and returns the result text.
func (m *MockInvoker) InvokeText(
	ctx context.Context,
	prompt string,
	structured bool,
	candidates ...string,
) (string, error) {
	result, err := m.Invoke(ctx, generation.InvokeRequest{
		Prompt:     prompt,
		Structured: structured,
		Candidates: candidates,
	})
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return result.Text, nil
}
