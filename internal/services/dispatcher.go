package services

import (
	"context"

	"github.com/SyedMHaroon/NamazBot/domain"
	"go.uber.org/zap"
)

// IntentHandler produces the base reply for one intent
type IntentHandler interface {
	Handle(ctx context.Context, turn *domain.Turn) string
}

// IntentHandlerFunc adapts a function to IntentHandler
type IntentHandlerFunc func(ctx context.Context, turn *domain.Turn) string

// Handle calls f(ctx, turn)
func (f IntentHandlerFunc) Handle(ctx context.Context, turn *domain.Turn) string {
	return f(ctx, turn)
}

// TurnDispatcher routes a completed-profile turn to its intent handler
type TurnDispatcher struct {
	classifier domain.IntentClassifier
	gate       *LanguageGate
	general    IntentHandler
	handlers   map[domain.Intent]IntentHandler
	logger     *zap.Logger
}

// NewTurnDispatcher creates a dispatcher. general serves every intent
// without a registered handler.
func NewTurnDispatcher(classifier domain.IntentClassifier, gate *LanguageGate, general IntentHandler, logger *zap.Logger) *TurnDispatcher {
	return &TurnDispatcher{
		classifier: classifier,
		gate:       gate,
		general:    general,
		handlers:   make(map[domain.Intent]IntentHandler),
		logger:     logger,
	}
}

// Register binds a handler to an intent
func (d *TurnDispatcher) Register(intent domain.Intent, h IntentHandler) {
	d.handlers[intent] = h
}

// Dispatch classifies the turn, merges slots and runs the handler. An
// incomplete profile never reaches a handler; it gets the next onboarding
// prompt instead.
func (d *TurnDispatcher) Dispatch(ctx context.Context, turn *domain.Turn) string {
	p := turn.Profile
	if p.Session.Stage == domain.StageConfirmingLocation {
		return PromptYesNo
	}
	if prompt := NextFieldPrompt(p); prompt != "" {
		return prompt
	}

	c := d.classifier.Classify(ctx, turn.Input, turn.History)
	turn.Intent = c.Intent
	MergeSlots(&p.Overrides, c.Slots)

	h, ok := d.handlers[c.Intent]
	if !ok {
		h = d.general
	}
	d.logger.Debug("dispatching turn", zap.String("turn_id", turn.ID), zap.String("intent", string(c.Intent)))

	return d.gate.Ensure(ctx, p.Language, h.Handle(ctx, turn))
}

// MergeSlots copies classifier slots into the turn overrides. Absent slots
// clear their field so nothing leaks from an earlier turn.
func MergeSlots(o *domain.TurnOverrides, s domain.Slots) {
	o.City = deref(s.City)
	o.Country = deref(s.Country)
	o.Prayer = deref(s.PrayerName)
	o.Date = deref(s.Date)
	o.ReminderText = deref(s.ReminderText)
	o.ReminderTime = deref(s.ReminderTime)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// effectiveLocation resolves the location a turn asks about. A city override
// without a country switches to address mode.
func effectiveLocation(p *domain.Profile) (city, country string, addressMode bool) {
	o := p.Overrides
	if o.City != "" && o.Country == "" {
		return o.City, "", true
	}
	city, country = p.City, p.Country
	if o.City != "" {
		city = o.City
	}
	if o.Country != "" {
		country = o.Country
	}
	return city, country, false
}
