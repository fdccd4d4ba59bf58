package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderRepositoryImpl_EnqueuePopDue(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewReminderRepository(client)
	ctx := context.Background()
	now := time.Date(2025, 10, 28, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Enqueue(ctx, "u1", "drink water", now.Add(-time.Minute).Unix()))
	require.NoError(t, repo.Enqueue(ctx, "u2", "call mom", now.Unix()))
	require.NoError(t, repo.Enqueue(ctx, "u1", "later", now.Add(time.Hour).Unix()))
	require.NoError(t, repo.Enqueue(ctx, "u2", "next second", now.Add(time.Second).Unix()))
	assert.ErrorIs(t, repo.Enqueue(ctx, "", "orphan", now.Unix()), domain.ErrMissingUserID)

	due, err := repo.PopDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "drink water", due[0].Text)
	assert.Equal(t, "call mom", due[1].Text)
	assert.NotEmpty(t, due[0].ID)

	// Popped reminders are gone
	due, err = repo.PopDue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, due)

	remaining, err := client.ZCard(ctx, reminderKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)

	due, err = repo.PopDue(ctx, now.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "next second", due[0].Text)
}

func TestReminderRepositoryImpl_MemberFormat(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewReminderRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, "u1", "fast", 1700000000))

	members, err := client.ZRangeWithScores(ctx, reminderKey, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, float64(1700000000), members[0].Score)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(members[0].Member.(string)), &payload))
	assert.Equal(t, "u1", payload["wa_id"])
	assert.Equal(t, "fast", payload["text"])
}

func TestSubscriptionRepositoryImpl(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSubscriptionRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Subscribe(ctx, "u2"))
	require.NoError(t, repo.Subscribe(ctx, "u1"))
	require.NoError(t, repo.Subscribe(ctx, "u1"))

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)

	ok, err := repo.IsSubscribed(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Unsubscribe(ctx, "u2"))
	ok, err = repo.IsSubscribed(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, repo.Subscribe(ctx, ""), domain.ErrMissingUserID)
}

func TestIdempotencyRepositoryImpl_AlreadySeen(t *testing.T) {
	tests := []struct {
		name      string
		calls     []string
		expected  []bool
		expectTTL bool
	}{
		{
			name:      "first delivery then redelivery",
			calls:     []string{"SM1", "SM1"},
			expected:  []bool{false, true},
			expectTTL: true,
		},
		{
			name:      "distinct messages",
			calls:     []string{"SM1", "SM2"},
			expected:  []bool{false, false},
			expectTTL: true,
		},
		{
			name:     "missing message id is never a duplicate",
			calls:    []string{"", ""},
			expected: []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mr := setupTestRedis(t)
			repo := NewIdempotencyRepository(client, time.Hour)

			for i, id := range tt.calls {
				seen, err := repo.AlreadySeen(context.Background(), "u1", id)
				require.NoError(t, err)
				assert.Equal(t, tt.expected[i], seen, "call %d", i)
			}
			if tt.expectTTL {
				assert.Equal(t, time.Hour, mr.TTL("recent:u1"))
			}
		})
	}
}

func TestHistoryRepositoryImpl(t *testing.T) {
	client, mr := setupTestRedis(t)
	db := setupTestDB(t)
	messages := NewMessageRepository(db)
	repo := NewHistoryRepository(client, messages, 4, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.AppendTurn(ctx, "u1", "Fajr time", "Fajr time in Lahore, Pakistan: 05:01"))
	require.NoError(t, repo.AppendTurn(ctx, "u1", "next prayer", ""))
	require.NoError(t, repo.AppendTurn(ctx, "u1", "hijri", "Islamic (Hijri) date"))

	// Buffer keeps only the last four entries
	got, err := repo.FetchRecent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "Fajr time in Lahore, Pakistan: 05:01", got[0].Text)
	assert.Equal(t, domain.RoleAssistant, got[3].Role)
	assert.Equal(t, time.Hour, mr.TTL("buf:u1"))

	got, err = repo.FetchRecent(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"hijri", "Islamic (Hijri) date"}, []string{got[0].Text, got[1].Text})

	// Durable table has every non-empty message
	all, err := messages.FetchLast(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	// Expired buffer falls back to the durable table
	mr.Del("buf:u1")
	got, err = repo.FetchRecent(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Islamic (Hijri) date", got[1].Text)

	assert.ErrorIs(t, repo.AppendTurn(ctx, "", "x", "y"), domain.ErrMissingUserID)
}
