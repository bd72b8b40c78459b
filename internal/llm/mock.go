package llm

import (
	"context"
	"sync"

	"divisafe-support/internal/domain"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error

	mu       sync.Mutex
	calls    int
	messages []domain.ChatMessage
}

func (m *MockClient) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	m.mu.Lock()
	m.calls++
	m.messages = append([]domain.ChatMessage(nil), messages...)
	m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.Response, m.Err
}

// Calls devuelve cuantas veces se llamo a Complete.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastMessages devuelve los mensajes de la ultima llamada.
func (m *MockClient) LastMessages() []domain.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChatMessage(nil), m.messages...)
}
