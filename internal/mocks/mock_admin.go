package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateAccessTokenFunc func(subject, role string) (string, error)
	ValidateAccessTokenFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// GenerateAccessToken generates an access token
func (m *MockTokenService) GenerateAccessToken(subject, role string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(subject, role)
	}
	// Default behavior: return a mock access token
	return fmt.Sprintf("access_token_%s_%s", subject, role), nil
}

// ValidateAccessToken validates an access token and returns claims
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	// Default behavior: any non-empty token is an admin
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}
	now := time.Now().Unix()
	return &domain.TokenClaims{
		Subject:   "operator",
		Role:      "admin",
		IssuedAt:  now,
		ExpiresAt: now + 900,
	}, nil
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)

// MockSchedulerService implements domain.SchedulerService interface for testing
type MockSchedulerService struct {
	RunReminderTickFunc       func(ctx context.Context) error
	RunDigestTickFunc         func(ctx context.Context) error
	RunPrayerReminderTickFunc func(ctx context.Context) error
	Ticks                     []string
}

// NewMockSchedulerService creates a new MockSchedulerService with default behaviors
func NewMockSchedulerService() *MockSchedulerService {
	return &MockSchedulerService{}
}

// RunReminderTick runs the reminder job
func (m *MockSchedulerService) RunReminderTick(ctx context.Context) error {
	m.Ticks = append(m.Ticks, "reminders")
	if m.RunReminderTickFunc != nil {
		return m.RunReminderTickFunc(ctx)
	}
	return nil
}

// RunDigestTick runs the digest job
func (m *MockSchedulerService) RunDigestTick(ctx context.Context) error {
	m.Ticks = append(m.Ticks, "digest")
	if m.RunDigestTickFunc != nil {
		return m.RunDigestTickFunc(ctx)
	}
	return nil
}

// RunPrayerReminderTick runs the prayer reminder job
func (m *MockSchedulerService) RunPrayerReminderTick(ctx context.Context) error {
	m.Ticks = append(m.Ticks, "prayer")
	if m.RunPrayerReminderTickFunc != nil {
		return m.RunPrayerReminderTickFunc(ctx)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.SchedulerService = (*MockSchedulerService)(nil)
