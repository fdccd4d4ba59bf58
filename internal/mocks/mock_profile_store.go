package mocks

import (
	"context"
	"sync"

	"github.com/SyedMHaroon/NamazBot/domain"
)

// MockProfileStore implements domain.ProfileStore interface for testing
type MockProfileStore struct {
	GetFunc func(ctx context.Context, userID string) (*domain.Profile, error)
	SetFunc func(ctx context.Context, userID string, profile *domain.Profile) error

	mu       sync.Mutex
	profiles map[string]domain.Profile
}

// NewMockProfileStore creates a new MockProfileStore backed by an in-memory map
func NewMockProfileStore() *MockProfileStore {
	return &MockProfileStore{profiles: make(map[string]domain.Profile)}
}

// Get returns the stored profile
func (m *MockProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	// Default behavior: empty profile for unknown users
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[userID]; ok {
		cp := p
		return &cp, nil
	}
	return &domain.Profile{UserID: userID}, nil
}

// Set stores a copy of the profile
func (m *MockProfileStore) Set(ctx context.Context, userID string, profile *domain.Profile) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, userID, profile)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *profile
	cp.UserID = userID
	m.profiles[userID] = cp
	return nil
}

// Put seeds a profile (test helper)
func (m *MockProfileStore) Put(profile domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
}

// Compile-time interface compliance verification
var _ domain.ProfileStore = (*MockProfileStore)(nil)

// MockProfileRepository implements domain.ProfileRepository interface for testing
type MockProfileRepository struct {
	FindByUserIDFunc func(ctx context.Context, userID string) (*domain.Profile, error)
	UpsertFunc       func(ctx context.Context, profile *domain.Profile) error
}

// NewMockProfileRepository creates a new MockProfileRepository with default behaviors
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{}
}

// FindByUserID finds a durable profile
func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	// Default behavior: not found
	return nil, domain.ErrProfileNotFound
}

// Upsert writes a durable profile
func (m *MockProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, profile)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.ProfileRepository = (*MockProfileRepository)(nil)
