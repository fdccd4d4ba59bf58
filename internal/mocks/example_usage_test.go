package mocks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Demonstrates how to use the mocks in table-driven tests
func TestMockUsageExample(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mocks.MockProfileStore, *mocks.MockMessenger)
		expectSent int
		expectErr  bool
	}{
		{
			name: "stored profile is returned and message sent",
			setupMocks: func(store *mocks.MockProfileStore, messenger *mocks.MockMessenger) {
				store.Put(domain.Profile{UserID: "u1", Name: "Ali"})
			},
			expectSent: 1,
		},
		{
			name: "delivery failure is surfaced",
			setupMocks: func(store *mocks.MockProfileStore, messenger *mocks.MockMessenger) {
				messenger.SendTextFunc = func(ctx context.Context, to, body string) error {
					return errors.New("twilio down")
				}
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockProfileStore()
			messenger := mocks.NewMockMessenger()
			if tt.setupMocks != nil {
				tt.setupMocks(store, messenger)
			}

			p, err := store.Get(context.Background(), "u1")
			require.NoError(t, err)
			err = messenger.SendText(context.Background(), p.UserID, "hello "+p.Name)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, messenger.Sent, tt.expectSent)
		})
	}
}

func TestMockReminderQueue_PopDue(t *testing.T) {
	q := mocks.NewMockReminderQueue()
	now := time.Unix(1_700_000_000, 0)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, "u1", "early", now.Unix()-5))
	require.NoError(t, q.Enqueue(ctx, "u1", "late", now.Unix()+60))

	due, err := q.PopDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "early", due[0].Text)
	assert.Len(t, q.Enqueued, 1)
}

func TestMockCasbinEnforcer_Enforce(t *testing.T) {
	e := mocks.NewMockCasbinEnforcer()

	tests := []struct {
		role, path, method string
		allowed            bool
	}{
		{"role_admin", "/admin/ticks/:name", "POST", true},
		{"role_viewer", "/admin/subscribers", "GET", true},
		{"role_viewer", "/admin/subscribers/:id", "DELETE", false},
		{"role_guest", "/admin/subscribers", "GET", false},
	}
	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method+" "+tt.path, func(t *testing.T) {
			ok, err := e.Enforce(tt.role, tt.path, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, ok)
		})
	}
}
