package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	apologyEn = "Sorry, something went wrong. Please try again."
	apologyAr = "عذراً، حدث خطأ ما. يرجى المحاولة مرة أخرى."

	onboardingLabel = "onboarding"
)

// Apology is the reply of last resort
func Apology(lang domain.Language) string {
	if lang == domain.LanguageArabic {
		return apologyAr
	}
	return apologyEn
}

// TurnServiceImpl implements domain.TurnService
type TurnServiceImpl struct {
	profiles     domain.ProfileStore
	history      domain.MessageHistory
	onboarding   *Onboarding
	dispatcher   *TurnDispatcher
	events       domain.EventLogger
	logger       *zap.Logger
	historyLimit int
}

// NewTurnService creates a new turn service
func NewTurnService(
	profiles domain.ProfileStore,
	history domain.MessageHistory,
	onboarding *Onboarding,
	dispatcher *TurnDispatcher,
	events domain.EventLogger,
	logger *zap.Logger,
	historyLimit int,
) domain.TurnService {
	return &TurnServiceImpl{
		profiles:     profiles,
		history:      history,
		onboarding:   onboarding,
		dispatcher:   dispatcher,
		events:       events,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// HandleTurn implements domain.TurnService. It always returns a reply; the
// worst case is an apology in the user's language.
func (s *TurnServiceImpl) HandleTurn(ctx context.Context, userID, text string) (reply string) {
	start := time.Now()
	turn := &domain.Turn{ID: uuid.NewString(), UserID: userID, Input: text}
	lang := DetectLanguage(text)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			s.logger.Error("turn panicked", zap.String("turn_id", turn.ID), zap.String("user_id", userID), zap.Error(err))
			s.events.LogEvent(ctx, domain.NewEvent(domain.TurnFailedEvent, userID).WithTurn(turn.ID, turn.Intent).WithError(err))
			reply = Apology(lang)
		}
	}()

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		s.events.LogEvent(ctx, domain.NewEvent(domain.TurnFailedEvent, userID).WithTurn(turn.ID, "").WithError(err))
		return Apology(lang)
	}
	p.Language = lang
	turn.Profile = p

	label := onboardingLabel
	reply, handled := s.onboarding.Step(ctx, p, text)
	if !handled {
		turn.History = s.recentHistory(ctx, userID)
		reply = s.dispatcher.Dispatch(ctx, turn)
		label = string(turn.Intent)
	}
	if reply == "" {
		reply = Apology(lang)
	}
	turn.Reply = reply

	if err := s.profiles.Set(ctx, userID, p); err != nil {
		s.logger.Error("failed to save profile", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.history.AppendTurn(ctx, userID, text, reply); err != nil {
		s.logger.Warn("failed to append history", zap.String("user_id", userID), zap.Error(err))
	}

	metrics.TurnsTotal.WithLabelValues(label).Inc()
	metrics.TurnDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	s.events.LogEvent(ctx, domain.NewEvent(domain.TurnHandledEvent, userID).
		WithTurn(turn.ID, turn.Intent).
		WithMetadata("stage", string(p.Session.Stage)).
		WithMetadata("duration_ms", time.Since(start).Milliseconds()))

	return reply
}

func (s *TurnServiceImpl) recentHistory(ctx context.Context, userID string) []domain.HistoryEntry {
	if s.historyLimit <= 0 {
		return nil
	}
	entries, err := s.history.FetchRecent(ctx, userID, s.historyLimit)
	if err != nil {
		s.logger.Warn("failed to fetch history", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return entries
}

var _ domain.TurnService = (*TurnServiceImpl)(nil)
