package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryImpl_SaveFind(t *testing.T) {
	tests := []struct {
		name    string
		profile *domain.Profile
		ttl     time.Duration
	}{
		{
			name: "onboarding session with staged location",
			profile: &domain.Profile{
				UserID: "u1",
				Name:   "Ali",
				Email:  "ali@example.com",
				Session: domain.SessionState{
					Stage:  domain.StageConfirmingLocation,
					Staged: &domain.StagedLocation{City: "Lahore", Country: "Pakistan", Timezone: "Asia/Karachi"},
				},
			},
			ttl: time.Hour,
		},
		{
			name: "complete profile with reminder overrides",
			profile: &domain.Profile{
				UserID:    "u2",
				Name:      "Sara",
				Email:     "sara@example.com",
				City:      "Riyadh",
				Country:   "Saudi Arabia",
				Timezone:  "Asia/Riyadh",
				Language:  domain.LanguageArabic,
				Session:   domain.SessionState{Stage: domain.StageComplete},
				Overrides: domain.TurnOverrides{ReminderText: "call mom", ReminderTime: "18:30"},
			},
			ttl: 7 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mr := setupTestRedis(t)
			repo := NewSessionRepository(client, tt.ttl)
			ctx := context.Background()

			require.NoError(t, repo.Save(ctx, tt.profile))
			assert.Equal(t, tt.ttl, mr.TTL("sess:"+tt.profile.UserID))

			got, err := repo.Find(ctx, tt.profile.UserID)
			require.NoError(t, err)
			assert.Equal(t, tt.profile, got)
		})
	}
}

func TestSessionRepositoryImpl_Missing(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	_, err := repo.Find(ctx, "nobody")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))

	// Corrupt payloads are dropped
	require.NoError(t, mr.Set("sess:broken", "{not json"))
	_, err = repo.Find(ctx, "broken")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	assert.False(t, mr.Exists("sess:broken"))

	assert.ErrorIs(t, repo.Save(ctx, &domain.Profile{}), domain.ErrMissingUserID)
}

func TestSessionRepositoryImpl_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Profile{UserID: "u1", Name: "Ali"}))
	require.NoError(t, repo.Delete(ctx, "u1"))

	_, err := repo.Find(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
