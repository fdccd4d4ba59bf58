package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
)

// MockReminderQueue implements domain.ReminderQueue interface for testing
type MockReminderQueue struct {
	EnqueueFunc func(ctx context.Context, userID, text string, dueUTC int64) error
	PopDueFunc  func(ctx context.Context, now time.Time) ([]domain.Reminder, error)
	Enqueued    []domain.Reminder
}

// NewMockReminderQueue creates a new MockReminderQueue with default behaviors
func NewMockReminderQueue() *MockReminderQueue {
	return &MockReminderQueue{}
}

// Enqueue stores a reminder
func (m *MockReminderQueue) Enqueue(ctx context.Context, userID, text string, dueUTC int64) error {
	if m.EnqueueFunc != nil {
		if err := m.EnqueueFunc(ctx, userID, text, dueUTC); err != nil {
			return err
		}
	}
	m.Enqueued = append(m.Enqueued, domain.Reminder{UserID: userID, Text: text, DueUTC: dueUTC})
	return nil
}

// PopDue removes and returns due reminders
func (m *MockReminderQueue) PopDue(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	if m.PopDueFunc != nil {
		return m.PopDueFunc(ctx, now)
	}
	// Default behavior: pop from the enqueued list
	var due, rest []domain.Reminder
	for _, r := range m.Enqueued {
		if r.DueUTC <= now.Unix() {
			due = append(due, r)
		} else {
			rest = append(rest, r)
		}
	}
	m.Enqueued = rest
	return due, nil
}

// Compile-time interface compliance verification
var _ domain.ReminderQueue = (*MockReminderQueue)(nil)

// MockSubscriptionRepository implements domain.SubscriptionRepository interface for testing
type MockSubscriptionRepository struct {
	SubscribeFunc   func(ctx context.Context, userID string) error
	UnsubscribeFunc func(ctx context.Context, userID string) error
	ListFunc        func(ctx context.Context) ([]string, error)

	mu   sync.Mutex
	subs map[string]bool
}

// NewMockSubscriptionRepository creates a new MockSubscriptionRepository backed by a set
func NewMockSubscriptionRepository(userIDs ...string) *MockSubscriptionRepository {
	m := &MockSubscriptionRepository{subs: make(map[string]bool)}
	for _, id := range userIDs {
		m.subs[id] = true
	}
	return m
}

// Subscribe adds a user
func (m *MockSubscriptionRepository) Subscribe(ctx context.Context, userID string) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[userID] = true
	return nil
}

// Unsubscribe removes a user
func (m *MockSubscriptionRepository) Unsubscribe(ctx context.Context, userID string) error {
	if m.UnsubscribeFunc != nil {
		return m.UnsubscribeFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, userID)
	return nil
}

// IsSubscribed reports membership
func (m *MockSubscriptionRepository) IsSubscribed(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs[userID], nil
}

// List returns subscribers sorted
func (m *MockSubscriptionRepository) List(ctx context.Context) ([]string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.subs))
	for id := range m.subs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// Compile-time interface compliance verification
var _ domain.SubscriptionRepository = (*MockSubscriptionRepository)(nil)

// MockDedupeStore implements domain.DedupeStore interface for testing
type MockDedupeStore struct {
	OnceFunc func(ctx context.Context, key string, ttl time.Duration) (bool, error)

	mu   sync.Mutex
	keys map[string]time.Duration
}

// NewMockDedupeStore creates a new MockDedupeStore backed by a map
func NewMockDedupeStore() *MockDedupeStore {
	return &MockDedupeStore{keys: make(map[string]time.Duration)}
}

// Once claims a key
func (m *MockDedupeStore) Once(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.OnceFunc != nil {
		return m.OnceFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = ttl
	return true, nil
}

// TTL returns the ttl a key was claimed with (test helper)
func (m *MockDedupeStore) TTL(key string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ttl, ok := m.keys[key]
	return ttl, ok
}

// Compile-time interface compliance verification
var _ domain.DedupeStore = (*MockDedupeStore)(nil)

// MockIdempotencyRepository implements domain.IdempotencyRepository interface for testing
type MockIdempotencyRepository struct {
	AlreadySeenFunc func(ctx context.Context, userID, messageID string) (bool, error)

	mu   sync.Mutex
	seen map[string]bool
}

// NewMockIdempotencyRepository creates a new MockIdempotencyRepository with default behaviors
func NewMockIdempotencyRepository() *MockIdempotencyRepository {
	return &MockIdempotencyRepository{seen: make(map[string]bool)}
}

// AlreadySeen reports whether the message was recorded before, recording it
func (m *MockIdempotencyRepository) AlreadySeen(ctx context.Context, userID, messageID string) (bool, error) {
	if m.AlreadySeenFunc != nil {
		return m.AlreadySeenFunc(ctx, userID, messageID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userID + ":" + messageID
	if m.seen[key] {
		return true, nil
	}
	m.seen[key] = true
	return false, nil
}

// Compile-time interface compliance verification
var _ domain.IdempotencyRepository = (*MockIdempotencyRepository)(nil)
