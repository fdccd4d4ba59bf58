package mocks

import (
	"context"
	"sync"

	"github.com/SyedMHaroon/NamazBot/domain"
)

// MockCalendarBridge implements domain.CalendarBridge interface for testing
type MockCalendarBridge struct {
	IsConnectedFunc func(ctx context.Context, userID string) domain.Result[bool]
	CallToolFunc    func(ctx context.Context, userID, tool string, params map[string]any) domain.CalendarResult
	ConnectLinkFunc func(userID string) string
	Calls           []ToolCall
}

// ToolCall records one calendar tool invocation
type ToolCall struct {
	Tool   string
	Params map[string]any
}

// NewMockCalendarBridge creates a new MockCalendarBridge with default behaviors
func NewMockCalendarBridge() *MockCalendarBridge {
	return &MockCalendarBridge{}
}

// IsConnected reports whether the user linked a calendar
func (m *MockCalendarBridge) IsConnected(ctx context.Context, userID string) domain.Result[bool] {
	if m.IsConnectedFunc != nil {
		return m.IsConnectedFunc(ctx, userID)
	}
	// Default behavior: not connected
	return domain.Ok(false)
}

// CallTool runs a calendar tool
func (m *MockCalendarBridge) CallTool(ctx context.Context, userID, tool string, params map[string]any) domain.CalendarResult {
	m.Calls = append(m.Calls, ToolCall{Tool: tool, Params: params})
	if m.CallToolFunc != nil {
		return m.CallToolFunc(ctx, userID, tool, params)
	}
	return domain.CalendarResult{Success: true}
}

// ConnectLink returns the link a user follows to connect
func (m *MockCalendarBridge) ConnectLink(userID string) string {
	if m.ConnectLinkFunc != nil {
		return m.ConnectLinkFunc(userID)
	}
	return "https://connect.example.com/?user=" + userID
}

// Compile-time interface compliance verification
var _ domain.CalendarBridge = (*MockCalendarBridge)(nil)

// MockCalendarConnectionRepository implements domain.CalendarConnectionRepository interface for testing
type MockCalendarConnectionRepository struct {
	FindServerURLFunc func(ctx context.Context, userID string) (string, error)

	mu   sync.Mutex
	urls map[string]string
}

// NewMockCalendarConnectionRepository creates a new map backed repository
func NewMockCalendarConnectionRepository() *MockCalendarConnectionRepository {
	return &MockCalendarConnectionRepository{urls: make(map[string]string)}
}

// FindServerURL returns the user's tool server
func (m *MockCalendarConnectionRepository) FindServerURL(ctx context.Context, userID string) (string, error) {
	if m.FindServerURLFunc != nil {
		return m.FindServerURLFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.urls[userID]; ok {
		return u, nil
	}
	return "", domain.ErrCalendarNotConnected
}

// Save links a user to a server
func (m *MockCalendarConnectionRepository) Save(ctx context.Context, userID, serverURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls[userID] = serverURL
	return nil
}

// Delete unlinks a user
func (m *MockCalendarConnectionRepository) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.urls, userID)
	return nil
}

// Compile-time interface compliance verification
var _ domain.CalendarConnectionRepository = (*MockCalendarConnectionRepository)(nil)
