package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapEventLogger_LogEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       *domain.Event
		expectLevel zapcore.Level
		expectKeys  []string
	}{
		{
			name: "successful turn",
			event: domain.NewEvent(domain.TurnHandledEvent, "u1").
				WithTurn("t1", domain.IntentNextPrayer).
				WithMetadata("lang", "en"),
			expectLevel: zapcore.InfoLevel,
			expectKeys:  []string{"event_type", "user_id", "turn_id", "intent", "lang"},
		},
		{
			name:        "failed delivery",
			event:       domain.NewEvent(domain.DeliveryFailedEvent, "u2").WithError(errors.New("twilio down")),
			expectLevel: zapcore.WarnLevel,
			expectKeys:  []string{"event_type", "user_id", "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			NewEventLogger(zap.New(core)).LogEvent(context.Background(), tt.event)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.expectLevel, entries[0].Level)
			fields := entries[0].ContextMap()
			for _, k := range tt.expectKeys {
				assert.Contains(t, fields, k)
			}
			assert.Equal(t, string(tt.event.EventType), fields["event_type"])
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := NewLogger(debug)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
