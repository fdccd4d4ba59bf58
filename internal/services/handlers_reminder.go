package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"go.uber.org/zap"
)

const (
	ReplyReminderNoUser  = "I can't set a reminder without a user id."
	ReplyReminderUnclear = "Tell me what to remind you about and when, e.g. 'remind me to call mom at 18:30' or 'in 20 minutes'."
	ReplyReminderFailed  = "Sorry, I couldn't save that reminder. Please try again."
)

const extractPrompt = `Extract a reminder from the user's message. Return ONLY JSON, no prose:
{"text": string|null, "time": "HH:MM" (24h) | "in N minutes" | "in N hours" | null}

Message: `

type extractedReminder struct {
	Text any `json:"text"`
	Time any `json:"time"`
}

// ReminderHandler schedules one-off reminders
type ReminderHandler struct {
	queue  domain.ReminderQueue
	llm    domain.LLM
	events domain.EventLogger
	now    func() time.Time
	logger *zap.Logger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(queue domain.ReminderQueue, llm domain.LLM, events domain.EventLogger, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{queue: queue, llm: llm, events: events, now: time.Now, logger: logger}
}

// Handle implements IntentHandler
func (h *ReminderHandler) Handle(ctx context.Context, turn *domain.Turn) string {
	p := turn.Profile
	defer p.Overrides.ClearConsumed()
	defer p.Overrides.ClearReminder()

	if p.UserID == "" {
		return ReplyReminderNoUser
	}

	text, when := p.Overrides.ReminderText, p.Overrides.ReminderTime
	if text == "" || when == "" {
		t, w := h.extract(ctx, turn.Input)
		if text == "" {
			text = t
		}
		if when == "" {
			when = w
		}
	}
	if text == "" || when == "" {
		return ReplyReminderUnclear
	}

	due, err := ResolveReminderTime(when, h.now(), location(p.Timezone, ""))
	if err != nil {
		return ReplyReminderUnclear
	}

	event := domain.NewEvent(domain.ReminderScheduledEvent, p.UserID).
		WithTurn(turn.ID, domain.IntentReminder).
		WithMetadata("due_utc", due.Unix())
	if err := h.queue.Enqueue(ctx, p.UserID, text, due.Unix()); err != nil {
		h.logger.Error("failed to enqueue reminder", zap.String("user_id", p.UserID), zap.Error(err))
		h.events.LogEvent(ctx, event.WithError(err))
		return ReplyReminderFailed
	}
	h.events.LogEvent(ctx, event)

	local := due.In(location(p.Timezone, ""))
	return fmt.Sprintf("Okay! I'll remind you to %s at %s.", text, local.Format("15:04 on Mon, 02 Jan"))
}

// extract asks the LLM for the reminder text and time; failures yield ""
func (h *ReminderHandler) extract(ctx context.Context, input string) (string, string) {
	raw, err := h.llm.Complete(ctx, extractPrompt+input)
	if err != nil {
		h.logger.Warn("reminder extraction failed", zap.Error(err))
		return "", ""
	}
	r, _ := decodeOrDefault(raw, extractedReminder{})
	when := stringField(r.Time)
	if !validReminderTime(when) {
		when = ""
	}
	return stringField(r.Text), when
}

// ResolveReminderTime turns "HH:MM" or "in N minutes|hours" into an absolute
// time. A clock time already past today rolls over to tomorrow.
func ResolveReminderTime(expr string, now time.Time, loc *time.Location) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	local := now.In(loc)

	if hh, mm, ok := parseHHMM(expr); ok {
		due := time.Date(local.Year(), local.Month(), local.Day(), hh, mm, 0, 0, loc)
		if !due.After(local) {
			due = due.AddDate(0, 0, 1)
		}
		return due.UTC(), nil
	}

	m := relativeTimeRe.FindStringSubmatch(expr)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrReminderTime, expr)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrReminderTime, expr)
	}
	unit := time.Minute
	if strings.HasPrefix(strings.ToLower(m[2]), "h") {
		unit = time.Hour
	}
	return now.Add(time.Duration(n) * unit).UTC(), nil
}
