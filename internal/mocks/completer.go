package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/scry-completion/internal/generation"
)

// Step is one scripted reply of a MockCompleter.
type Step struct {
	Text string
	Err  error
}

// Reply returns a Step that succeeds with text.
func Reply(text string) Step {
	return Step{Text: text}
}

// Fail returns a Step that fails with err.
func Fail(err error) Step {
	return Step{Err: err}
}

// MockCompleter implements generation.Completer with per-model scripts.
// Each model replays its steps in order; the last step repeats once the
// script is exhausted. Models without a script fail.
type MockCompleter struct {
	// CompleteFn overrides the scripted behavior when set
	CompleteFn func(ctx context.Context, req generation.CompletionRequest) (string, error)

	mu      sync.Mutex
	scripts map[string][]Step
	calls   []generation.CompletionRequest
}

// NewMockCompleter creates a MockCompleter with no scripts.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{scripts: make(map[string][]Step)}
}

// On appends steps to the script for model and returns the mock for chaining.
func (m *MockCompleter) On(model string, steps ...Step) *MockCompleter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scripts == nil {
		m.scripts = make(map[string][]Step)
	}
	m.scripts[model] = append(m.scripts[model], steps...)
	return m
}

// Complete implements the generation.Completer interface
func (m *MockCompleter) Complete(ctx context.Context, req generation.CompletionRequest) (string, error) {
	m.mu.Lock()
	callIndex := m.countLocked(req.Model)
	m.calls = append(m.calls, req)
	script := m.scripts[req.Model]
	fn := m.CompleteFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if len(script) == 0 {
		return "", fmt.Errorf("mock completer: no script for model %q", req.Model)
	}

	step := script[len(script)-1]
	if callIndex < len(script) {
		step = script[callIndex]
	}
	return step.Text, step.Err
}

// Calls returns a copy of every request received, in order.
func (m *MockCompleter) Calls() []generation.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.CompletionRequest(nil), m.calls...)
}

// CallCount returns how many times model was called.
func (m *MockCompleter) CallCount(model string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(model)
}

// Models returns the model of every call, in order.
func (m *MockCompleter) Models() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	models := make([]string, 0, len(m.calls))
	for _, call := range m.calls {
		models = append(models, call.Model)
	}
	return models
}

// Reset clears the call history; scripts are kept.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *MockCompleter) countLocked(model string) int {
	count := 0
	for _, call := range m.calls {
		if call.Model == model {
			count++
		}
	}
	return count
}

var _ generation.Completer = (*MockCompleter)(nil)
