package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/calendar"
	"go.uber.org/zap"
)

const (
	ReplyCalendarNotConnected = "Your calendar isn't connected yet."
	ReplyCalendarCheckFailed  = "Sorry, I couldn't check your calendar connection right now. Please try again later."
	ReplyCalendarNoLink       = "Calendar connection isn't available at the moment."
	ReplyCalendarNeedDetails  = "Please tell me the event title and when it starts, e.g. 'add Jummah prayer on 2025-11-07 at 13:00'."
	ReplyCalendarNeedEventID  = "Which event should I delete? Please send the event id."
	primaryCalendar           = "primary"
)

const eventPrompt = `Extract calendar details from the user's message. Return ONLY JSON, no prose:
{"summary": string|null, "start": "YYYY-MM-DDTHH:MM"|null, "end": "YYYY-MM-DDTHH:MM"|null, "query": string|null, "event_id": string|null}
Times are local to the user. Current local time: %s.

Message: %s`

var eventTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

type eventDetails struct {
	Summary any `json:"summary"`
	Start   any `json:"start"`
	End     any `json:"end"`
	Query   any `json:"query"`
	EventID any `json:"event_id"`
}

// toolResolver is implemented by bridges that can discover tool names
type toolResolver interface {
	ResolveTool(ctx context.Context, userID, fallback string, keywords ...string) string
}

// CalendarHandler runs calendar operations through the tool bridge
type CalendarHandler struct {
	bridge domain.CalendarBridge
	llm    domain.LLM
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(bridge domain.CalendarBridge, llm domain.LLM, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{bridge: bridge, llm: llm, now: time.Now, logger: logger}
}

// Handle implements IntentHandler for every calendar intent
func (h *CalendarHandler) Handle(ctx context.Context, turn *domain.Turn) string {
	p := turn.Profile
	defer p.Overrides.ClearConsumed()

	connected := h.bridge.IsConnected(ctx, p.UserID)
	if !connected.IsOk() {
		h.logger.Warn("calendar connection check failed", zap.String("user_id", p.UserID), zap.Error(connected.Reason()))
		return ReplyCalendarCheckFailed
	}

	if turn.Intent == domain.IntentCalendarConnect {
		if connected.Value() {
			return "Your calendar is already connected."
		}
		return h.connectReply(p.UserID, "Connect your calendar here: ")
	}
	if !connected.Value() {
		return h.connectReply(p.UserID, ReplyCalendarNotConnected+" Connect it here: ")
	}

	loc := location(p.Timezone, "")
	now := h.now().In(loc)
	details := h.extract(ctx, turn.Input, now)

	switch turn.Intent {
	case domain.IntentCalendarCreate:
		return h.create(ctx, p.UserID, details, loc)
	case domain.IntentCalendarView:
		return h.view(ctx, p.UserID, details, now)
	case domain.IntentCalendarFind:
		return h.find(ctx, p.UserID, details, turn.Input, now)
	case domain.IntentCalendarDelete:
		return h.delete(ctx, p.UserID, details)
	}
	return GeneralReply(p.Language)
}

func (h *CalendarHandler) connectReply(userID, prefix string) string {
	link := h.bridge.ConnectLink(userID)
	if link == "" {
		return ReplyCalendarNoLink
	}
	return prefix + link
}

func (h *CalendarHandler) extract(ctx context.Context, input string, now time.Time) eventDetails {
	raw, err := h.llm.Complete(ctx, fmt.Sprintf(eventPrompt, now.Format("2006-01-02T15:04 (Monday)"), input))
	if err != nil {
		h.logger.Warn("calendar extraction failed", zap.Error(err))
		return eventDetails{}
	}
	d, _ := decodeOrDefault(raw, eventDetails{})
	return d
}

func (h *CalendarHandler) tool(ctx context.Context, userID, fallback string, keywords ...string) string {
	if r, ok := h.bridge.(toolResolver); ok {
		return r.ResolveTool(ctx, userID, fallback, keywords...)
	}
	return fallback
}

func parseEventTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (h *CalendarHandler) create(ctx context.Context, userID string, d eventDetails, loc *time.Location) string {
	summary := stringField(d.Summary)
	start, ok := parseEventTime(stringField(d.Start), loc)
	if summary == "" || !ok {
		return ReplyCalendarNeedDetails
	}
	end, ok := parseEventTime(stringField(d.End), loc)
	if !ok || !end.After(start) {
		end = start.Add(time.Hour)
	}

	res := h.bridge.CallTool(ctx, userID, h.tool(ctx, userID, calendar.FallbackCreateTool, "create", "insert"), map[string]any{
		"calendarid": primaryCalendar,
		"summary":    summary,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	})
	if !res.Success {
		return res.Error
	}
	return fmt.Sprintf("Event created: %s on %s.", summary, start.Format("Mon, 02 Jan 2006 at 15:04"))
}

// window returns the requested range or [now, now+days)
func window(d eventDetails, now time.Time, days int) (time.Time, time.Time) {
	start, ok := parseEventTime(stringField(d.Start), now.Location())
	if !ok {
		start = now
	}
	end, ok := parseEventTime(stringField(d.End), now.Location())
	if !ok || !end.After(start) {
		end = start.AddDate(0, 0, days)
	}
	return start, end
}

func (h *CalendarHandler) view(ctx context.Context, userID string, d eventDetails, now time.Time) string {
	start, end := window(d, now, 7)
	res := h.bridge.CallTool(ctx, userID, h.tool(ctx, userID, calendar.FallbackFindTool, "list", "find"), map[string]any{
		"calendarid": primaryCalendar,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
		"ordering":   "startTime",
	})
	if !res.Success {
		return res.Error
	}
	if strings.TrimSpace(res.Data) == "" {
		return "No events found."
	}
	return "Here are your events:\n" + res.Data
}

func (h *CalendarHandler) find(ctx context.Context, userID string, d eventDetails, input string, now time.Time) string {
	query := stringField(d.Query)
	if query == "" {
		query = stringField(d.Summary)
	}
	if query == "" {
		query = input
	}
	start, end := window(d, now, 30)
	res := h.bridge.CallTool(ctx, userID, h.tool(ctx, userID, calendar.FallbackFindTool, "search", "find"), map[string]any{
		"q":          query,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	})
	if !res.Success {
		return res.Error
	}
	if strings.TrimSpace(res.Data) == "" {
		return fmt.Sprintf("No events matching %q.", query)
	}
	return fmt.Sprintf("Events matching %q:\n%s", query, res.Data)
}

func (h *CalendarHandler) delete(ctx context.Context, userID string, d eventDetails) string {
	id := stringField(d.EventID)
	if id == "" {
		return ReplyCalendarNeedEventID
	}
	res := h.bridge.CallTool(ctx, userID, h.tool(ctx, userID, calendar.FallbackDeleteTool, "delete", "remove"), map[string]any{
		"eventid":    id,
		"calendarid": primaryCalendar,
	})
	if !res.Success {
		return res.Error
	}
	return "Event deleted."
}
