package logging

import (
	"context"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// NewLogger builds the process logger
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// ZapEventLogger implements domain.EventLogger on top of zap
type ZapEventLogger struct {
	logger *zap.Logger
}

// NewEventLogger creates a new event logger
func NewEventLogger(logger *zap.Logger) domain.EventLogger {
	return &ZapEventLogger{logger: logger.Named("events")}
}

// LogEvent implements domain.EventLogger
func (l *ZapEventLogger) LogEvent(ctx context.Context, event *domain.Event) {
	metrics.ObserveEvent(string(event.EventType), event.Success)

	fields := make([]zap.Field, 0, 6+len(event.Metadata))
	fields = append(fields,
		zap.String("event_type", string(event.EventType)),
		zap.String("user_id", event.UserID),
		zap.Time("timestamp", event.Timestamp),
		zap.Bool("success", event.Success),
	)
	if event.TurnID != "" {
		fields = append(fields, zap.String("turn_id", event.TurnID))
	}
	if event.Intent != "" {
		fields = append(fields, zap.String("intent", string(event.Intent)))
	}
	for k, v := range event.Metadata {
		fields = append(fields, zap.Any(k, v))
	}

	if !event.Success {
		fields = append(fields, zap.String("error", event.ErrorMsg))
		l.logger.Warn("bot event", fields...)
		return
	}
	l.logger.Info("bot event", fields...)
}
