package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// historyTurns caps the context given to the router prompt
const historyTurns = 6

var dateKeywords = []string{
	"islamic date", "hijri", "what date", "today's date", "date today",
	"التاريخ", "هجري", "الهجري",
}

var prayerSlots = map[string]string{
	"fajr":    "Fajr",
	"zuhr":    "Dhuhr",
	"dhuhr":   "Dhuhr",
	"asr":     "Asr",
	"maghrib": "Maghrib",
	"isha":    "Isha",
}

var (
	isoDateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	relativeTimeRe = regexp.MustCompile(`(?i)^in\s+(\d+)\s+(minute|minutes|min|mins|hour|hours|hr|hrs)$`)
)

const routerPrompt = `You are a router that ONLY returns strict JSON. No prose, no markdown.
Allowed intents: islamic_date, prayer_times, next_prayer, reminder, calendar_connect, calendar_create, calendar_view, calendar_find, calendar_delete, general.
Slots (all optional):
  - prayer_name: Fajr|Dhuhr|Asr|Maghrib|Isha
  - date: today|tomorrow|YYYY-MM-DD
  - city: string (ONLY if user typed a city)
  - country: string (ONLY if user explicitly typed a country; DO NOT GUESS OR INFER)
  - reminder_text: string (what to be reminded about)
  - reminder_time: HH:MM (24h) or "in N minutes" or "in N hours"
If unsure about ANY slot, set it to null. DO NOT invent or infer countries.
Respond with exactly this JSON schema:
{
  "intent": "<one allowed intent>",
  "slots": {"prayer_name": null|string, "date": null|string, "city": null|string, "country": null|string, "reminder_text": null|string, "reminder_time": null|string}
}
`

// rawClassification keeps slots raw so a malformed slots value only drops
// the slots, not the intent
type rawClassification struct {
	Intent any             `json:"intent"`
	Slots  json.RawMessage `json:"slots"`
}

func (r rawClassification) slotMap() map[string]any {
	var m map[string]any
	if err := json.Unmarshal(r.Slots, &m); err != nil {
		return nil
	}
	return m
}

// IntentClassifierImpl implements domain.IntentClassifier with an LLM router
type IntentClassifierImpl struct {
	llm    domain.LLM
	logger *zap.Logger
}

// NewIntentClassifier creates a new LLM backed classifier
func NewIntentClassifier(llm domain.LLM, logger *zap.Logger) domain.IntentClassifier {
	return &IntentClassifierImpl{llm: llm, logger: logger}
}

// Classify implements domain.IntentClassifier. It never fails: anything the
// router returns that cannot be trusted becomes the general intent or a nil
// slot.
func (c *IntentClassifierImpl) Classify(ctx context.Context, utterance string, history []domain.HistoryEntry) domain.Classification {
	if IsDateQuery(utterance) {
		return domain.Classification{Intent: domain.IntentIslamicDate}
	}

	raw, err := c.llm.Complete(ctx, buildRouterPrompt(utterance, history))
	if err != nil {
		c.fallback("llm_error", zap.Error(err))
		return domain.DefaultClassification()
	}

	decoded, ok := decodeOrDefault(raw, rawClassification{})
	if !ok {
		c.fallback("malformed_json", zap.String("raw", raw))
		return domain.DefaultClassification()
	}

	label, _ := decoded.Intent.(string)
	intent := domain.ParseIntent(label)
	if intent == domain.IntentGeneral && !strings.EqualFold(strings.TrimSpace(label), string(domain.IntentGeneral)) {
		c.fallback("unknown_intent", zap.String("intent", label))
		return domain.DefaultClassification()
	}

	return domain.Classification{
		Intent: intent,
		Slots:  sanitizeSlots(decoded.slotMap(), utterance),
	}
}

func (c *IntentClassifierImpl) fallback(reason string, fields ...zap.Field) {
	metrics.ClassifierFallbacks.WithLabelValues(reason).Inc()
	c.logger.Warn("classifier fallback", append(fields, zap.String("reason", reason))...)
}

// IsDateQuery matches the keyword shortcut that skips the router
func IsDateQuery(utterance string) bool {
	q := strings.ToLower(utterance)
	for _, kw := range dateKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func buildRouterPrompt(utterance string, history []domain.HistoryEntry) string {
	var b strings.Builder
	b.WriteString(routerPrompt)
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, h := range history {
			role := "User"
			if h.Role == domain.RoleAssistant {
				role = "Bot"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, h.Text)
		}
	}
	fmt.Fprintf(&b, "\nUser: %s\n", utterance)
	return b.String()
}

func sanitizeSlots(raw map[string]any, utterance string) domain.Slots {
	var s domain.Slots

	if p, ok := prayerSlots[strings.ToLower(stringField(raw["prayer_name"]))]; ok {
		s.PrayerName = &p
	}
	if d := strings.ToLower(stringField(raw["date"])); d == "today" || d == "tomorrow" || isoDateRe.MatchString(d) {
		s.Date = &d
	}
	if city := stringField(raw["city"]); city != "" {
		city = TitleCase(city)
		s.City = &city
	}
	// Only what the user actually typed counts as a country
	if country := FindCountryInText(utterance); country != "" {
		s.Country = &country
	}
	if text := stringField(raw["reminder_text"]); text != "" {
		s.ReminderText = &text
	}
	if t := stringField(raw["reminder_time"]); validReminderTime(t) {
		s.ReminderTime = &t
	}
	return s
}

func validReminderTime(t string) bool {
	if _, _, ok := parseHHMM(t); ok {
		return true
	}
	return relativeTimeRe.MatchString(t)
}

var _ domain.IntentClassifier = (*IntentClassifierImpl)(nil)
