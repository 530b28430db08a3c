package inngest

import (
	"context"
	"net/http"
	"sync"
)

// MockClient is a mock implementation of the InngestClient interface for testing.
type MockClient struct {
	mu sync.Mutex

	SendEventFunc func(ctx context.Context, name string, data map[string]any) error

	SendEventCalls []struct {
		Name string
		Data map[string]any
	}
}

func NewMock() *MockClient {
	return &MockClient{}
}

// Serve answers every request with 200 so routing can be tested.
func (m *MockClient) Serve() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (m *MockClient) SendEvent(ctx context.Context, name string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendEventCalls = append(m.SendEventCalls, struct {
		Name string
		Data map[string]any
	}{Name: name, Data: data})
	if m.SendEventFunc != nil {
		return m.SendEventFunc(ctx, name, data)
	}
	return nil
}
