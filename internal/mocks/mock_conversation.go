package mocks

import (
	"context"
	"sync"

	"github.com/SyedMHaroon/NamazBot/domain"
)

// MockMessageHistory implements domain.MessageHistory interface for testing
type MockMessageHistory struct {
	AppendTurnFunc  func(ctx context.Context, userID, userText, botText string) error
	FetchRecentFunc func(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error)

	mu      sync.Mutex
	entries map[string][]domain.HistoryEntry
}

// NewMockMessageHistory creates a new in-memory MockMessageHistory
func NewMockMessageHistory() *MockMessageHistory {
	return &MockMessageHistory{entries: make(map[string][]domain.HistoryEntry)}
}

// AppendTurn records a user/bot pair
func (m *MockMessageHistory) AppendTurn(ctx context.Context, userID, userText, botText string) error {
	if m.AppendTurnFunc != nil {
		return m.AppendTurnFunc(ctx, userID, userText, botText)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = append(m.entries[userID],
		domain.HistoryEntry{Role: domain.RoleUser, Text: userText},
		domain.HistoryEntry{Role: domain.RoleAssistant, Text: botText},
	)
	return nil
}

// FetchRecent returns up to limit of the latest entries
func (m *MockMessageHistory) FetchRecent(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	if m.FetchRecentFunc != nil {
		return m.FetchRecentFunc(ctx, userID, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.entries[userID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]domain.HistoryEntry, len(all))
	copy(out, all)
	return out, nil
}

// Compile-time interface compliance verification
var _ domain.MessageHistory = (*MockMessageHistory)(nil)

// MockIntentClassifier implements domain.IntentClassifier interface for testing
type MockIntentClassifier struct {
	ClassifyFunc func(ctx context.Context, utterance string, history []domain.HistoryEntry) domain.Classification
	Calls        int
}

// NewMockIntentClassifier creates a new MockIntentClassifier with default behaviors
func NewMockIntentClassifier() *MockIntentClassifier {
	return &MockIntentClassifier{}
}

// Classify labels an utterance
func (m *MockIntentClassifier) Classify(ctx context.Context, utterance string, history []domain.HistoryEntry) domain.Classification {
	m.Calls++
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, utterance, history)
	}
	// Default behavior: general
	return domain.DefaultClassification()
}

// Compile-time interface compliance verification
var _ domain.IntentClassifier = (*MockIntentClassifier)(nil)

// MockLocationValidator implements domain.LocationValidator interface for testing
type MockLocationValidator struct {
	ParseCityCountryFunc func(line string) (string, string)
	SuggestCountryFunc   func(name string) string
	ValidateFunc         func(ctx context.Context, city, country string) domain.Result[string]
}

// NewMockLocationValidator creates a new MockLocationValidator with default behaviors
func NewMockLocationValidator() *MockLocationValidator {
	return &MockLocationValidator{}
}

// ParseCityCountry parses a location line
func (m *MockLocationValidator) ParseCityCountry(line string) (string, string) {
	if m.ParseCityCountryFunc != nil {
		return m.ParseCityCountryFunc(line)
	}
	// Default behavior: nothing parsed
	return "", ""
}

// SuggestCountry suggests a country name
func (m *MockLocationValidator) SuggestCountry(name string) string {
	if m.SuggestCountryFunc != nil {
		return m.SuggestCountryFunc(name)
	}
	return ""
}

// Validate validates a location
func (m *MockLocationValidator) Validate(ctx context.Context, city, country string) domain.Result[string] {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, city, country)
	}
	// Default behavior: valid, Karachi timezone
	return domain.Ok("Asia/Karachi")
}

// Compile-time interface compliance verification
var _ domain.LocationValidator = (*MockLocationValidator)(nil)

// MockTurnService implements domain.TurnService interface for testing
type MockTurnService struct {
	HandleTurnFunc func(ctx context.Context, userID, text string) string
}

// NewMockTurnService creates a new MockTurnService with default behaviors
func NewMockTurnService() *MockTurnService {
	return &MockTurnService{}
}

// HandleTurn runs one turn
func (m *MockTurnService) HandleTurn(ctx context.Context, userID, text string) string {
	if m.HandleTurnFunc != nil {
		return m.HandleTurnFunc(ctx, userID, text)
	}
	// Default behavior: echo
	return "echo: " + text
}

// Compile-time interface compliance verification
var _ domain.TurnService = (*MockTurnService)(nil)

// MockEventLogger implements domain.EventLogger interface for testing
type MockEventLogger struct {
	mu     sync.Mutex
	Events []*domain.Event
}

// NewMockEventLogger creates a new recording MockEventLogger
func NewMockEventLogger() *MockEventLogger {
	return &MockEventLogger{}
}

// LogEvent records an event
func (m *MockEventLogger) LogEvent(ctx context.Context, event *domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Types returns the recorded event types in order (test helper)
func (m *MockEventLogger) Types() []domain.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.EventType
	}
	return out
}

// Compile-time interface compliance verification
var _ domain.EventLogger = (*MockEventLogger)(nil)
