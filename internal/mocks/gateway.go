package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/phrazzld/fiszki-api/internal/domain"
	"github.com/phrazzld/fiszki-api/internal/generation"
)

// MockGateway implements generation.Gateway for testing
type MockGateway struct {
	// SendFn allows test cases to mock the Send behavior
	SendFn func(ctx context.Context, userMessage string) (*generation.ChatResponse, error)

	// Default response values
	Response *generation.ChatResponse
	Err      error
	Model    string

	mu       sync.Mutex
	messages []string
}

var _ generation.Gateway = (*MockGateway)(nil)

// Send implements the generation.Gateway interface
func (m *MockGateway) Send(ctx context.Context, userMessage string) (*generation.ChatResponse, error) {
	m.mu.Lock()
	m.messages = append(m.messages, userMessage)
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, userMessage)
	}
	return m.Response, m.Err
}

// ModelName implements the generation.Gateway interface
func (m *MockGateway) ModelName() string {
	if m.Model == "" {
		return "mock/model"
	}
	return m.Model
}

// Calls returns the number of Send calls.
func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Messages returns the user messages passed to Send, in order.
func (m *MockGateway) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// NewMockGatewayWithContent creates a MockGateway whose single choice carries content.
func NewMockGatewayWithContent(content string) *MockGateway {
	return &MockGateway{Response: ChatResponseWithContent(content)}
}

// NewMockGatewayWithCards creates a MockGateway answering with the given drafts.
func NewMockGatewayWithCards(cards ...domain.CardDraft) *MockGateway {
	body, _ := json.Marshal(generation.FlashcardsPayload{Flashcards: cards})
	return NewMockGatewayWithContent(string(body))
}

// NewMockGatewayWithError creates a MockGateway that fails with err.
func NewMockGatewayWithError(err error) *MockGateway {
	return &MockGateway{Err: err}
}

// ChatResponseWithContent builds a one-choice assistant response.
func ChatResponseWithContent(content string) *generation.ChatResponse {
	return &generation.ChatResponse{
		ID:      "gen-test",
		Model:   "mock/model",
		Created: 1700000000,
		Choices: []generation.Choice{{
			Index:   0,
			Message: generation.Message{Role: "assistant", Content: content},
		}},
	}
}
