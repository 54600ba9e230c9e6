package llm

import (
	"context"
	"sync"
)

// MockClient is a configurable answering client for testing.
// AnswerFunc, when set, decides every answer; otherwise Response/Error are returned.
type MockClient struct {
	Response   string
	Error      error
	AnswerFunc func(system, prompt string) (string, error)
	ModelName  string

	mu sync.Mutex
	// Call tracking for assertions
	PromptCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{
		Response:  "Mock answer",
		ModelName: "mock",
	}
}

func (m *MockClient) Answer(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	m.PromptCalls = append(m.PromptCalls, prompt)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.AnswerFunc != nil {
		return m.AnswerFunc(system, prompt)
	}
	return m.Response, m.Error
}

func (m *MockClient) Model() string { return m.ModelName }

// Calls returns the number of Answer invocations so far.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PromptCalls)
}
