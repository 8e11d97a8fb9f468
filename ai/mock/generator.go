package mock

import "context"

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via a function field.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns a canned answer echoing the query.
	GenerateFunc func(ctx context.Context, systemPrompt, query string) string

	callCount  int
	lastQuery  string
	lastPrompt string
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns the injected answer, or a canned answer echoing the query.
func (m *MockGenerator) Generate(ctx context.Context, systemPrompt, query string) string {
	m.callCount++
	m.lastPrompt = systemPrompt
	m.lastQuery = query

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, systemPrompt, query)
	}

	return "mock answer for: " + query
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastPrompt returns the system prompt from the most recent Generate call.
func (m *MockGenerator) LastPrompt() string {
	return m.lastPrompt
}

// LastQuery returns the query from the most recent Generate call.
func (m *MockGenerator) LastQuery() string {
	return m.lastQuery
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.lastQuery = ""
	m.GenerateFunc = nil
}
