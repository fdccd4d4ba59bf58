package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/SyedMHaroon/NamazBot/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliFixture struct {
	subs    *mocks.MockSubscriptionRepository
	tokens  *mocks.MockTokenService
	jobs    *mocks.MockSchedulerService
	paths   []string
	closed  int
	factory EnvFactory
}

func newCLIFixture(subscribers ...string) *cliFixture {
	f := &cliFixture{
		subs:   mocks.NewMockSubscriptionRepository(subscribers...),
		tokens: mocks.NewMockTokenService(),
		jobs:   mocks.NewMockSchedulerService(),
	}
	f.factory = func(path string) (*Env, error) {
		f.paths = append(f.paths, path)
		return &Env{
			Subscriptions: f.subs,
			Tokens:        f.tokens,
			Jobs:          f.jobs,
			Close:         func() { f.closed++ },
		}, nil
	}
	return f
}

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		expectedOut  string
		expectedPath string
		expectedSubs []string
		expectedTick []string
	}{
		{
			name:         "subscribe",
			args:         []string{"subscribe", "+923001234567"},
			expectedOut:  "subscribed +923001234567\n",
			expectedPath: "config/config.yml",
			expectedSubs: []string{"+923001234567", "u1"},
		},
		{
			name:         "unsubscribe with config before command",
			args:         []string{"-f", "prod.yml", "unsubscribe", "u1"},
			expectedOut:  "unsubscribed u1\n",
			expectedPath: "prod.yml",
			expectedSubs: []string{},
		},
		{
			name:         "list",
			args:         []string{"list"},
			expectedOut:  "u1\n",
			expectedPath: "config/config.yml",
			expectedSubs: []string{"u1"},
		},
		{
			name:         "token defaults",
			args:         []string{"token"},
			expectedOut:  "access_token_operator_admin\n",
			expectedPath: "config/config.yml",
			expectedSubs: []string{"u1"},
		},
		{
			name:         "viewer token",
			args:         []string{"token", "--subject", "support", "--role", "viewer"},
			expectedOut:  "access_token_support_viewer\n",
			expectedPath: "config/config.yml",
			expectedSubs: []string{"u1"},
		},
		{
			name:         "tick",
			args:         []string{"tick", "digest"},
			expectedOut:  "digest done\n",
			expectedPath: "config/config.yml",
			expectedSubs: []string{"u1"},
			expectedTick: []string{"digest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCLIFixture("u1")
			var out bytes.Buffer

			require.NoError(t, Run(tt.args, f.factory, &out))

			assert.Equal(t, tt.expectedOut, out.String())
			assert.Equal(t, []string{tt.expectedPath}, f.paths)
			assert.Equal(t, 1, f.closed)
			ids, err := f.subs.List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSubs, ids)
			assert.Equal(t, tt.expectedTick, f.jobs.Ticks)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		setup func(*cliFixture)
	}{
		{name: "missing user", args: []string{"subscribe"}},
		{name: "unknown command", args: []string{"purge"}},
		{name: "bad role", args: []string{"token", "--role", "root"}},
		{name: "unknown job", args: []string{"tick", "weekly"}},
		{
			name: "job failure",
			args: []string{"tick", "prayer"},
			setup: func(f *cliFixture) {
				f.jobs.RunPrayerReminderTickFunc = func(ctx context.Context) error { return errors.New("aladhan down") }
			},
		},
		{
			name: "factory failure",
			args: []string{"list"},
			setup: func(f *cliFixture) {
				f.factory = func(string) (*Env, error) { return nil, errors.New("redis unreachable") }
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCLIFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			var out bytes.Buffer

			assert.Error(t, Run(tt.args, f.factory, &out))
			assert.Empty(t, out.String())
		})
	}
}
