package mock

import (
	"context"
	"fmt"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default echo behavior.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	callCount  int
	lastPrompt string
}

// NewMockCompleter creates a mock completer with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockCompleter().
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns a deterministic completion derived from the prompt.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.lastPrompt = prompt

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	// Default: echo a short deterministic response
	return fmt.Sprintf("mock completion (%d chars)", len(prompt)), nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// LastPrompt returns the prompt from the most recent Complete call.
func (m *MockCompleter) LastPrompt() string {
	return m.lastPrompt
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.CompleteFunc = nil
}
