package domain

import "time"

// Language is the reply language of a profile
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// Canonical prayer order used for listing and next-prayer search
var PrayerOrder = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Profile represents a chat user: durable fields plus session-scoped state
type Profile struct {
	UserID   string   `json:"user_id"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	City     string   `json:"city,omitempty"`
	Country  string   `json:"country,omitempty"`
	Timezone string   `json:"tz,omitempty"`
	Language Language `json:"lang,omitempty"`

	// Transient, never written to the durable store
	Session   SessionState  `json:"session"`
	Overrides TurnOverrides `json:"overrides"`
}

// IsComplete reports whether all required durable fields are set
func (p *Profile) IsComplete() bool {
	return p.Name != "" && p.Email != "" && p.City != "" && p.Country != ""
}

// Durable returns a copy holding only the durable fields
func (p *Profile) Durable() *Profile {
	return &Profile{
		UserID:   p.UserID,
		Name:     p.Name,
		Email:    p.Email,
		City:     p.City,
		Country:  p.Country,
		Timezone: p.Timezone,
		Language: p.Language,
	}
}

// Stage enumerates the onboarding states of a session
type Stage string

const (
	StageNone               Stage = ""
	StageAwaitingName       Stage = "awaiting_name"
	StageAwaitingEmail      Stage = "awaiting_email"
	StageAwaitingLocation   Stage = "awaiting_location"
	StageConfirmingLocation Stage = "confirming_location"
	StageComplete           Stage = "complete"
)

// StagedLocation is a validated location waiting for user confirmation
type StagedLocation struct {
	City     string `json:"city"`
	Country  string `json:"country"`
	Timezone string `json:"tz"`
}

// SessionState is the onboarding state of one user session.
// Staged is only set while Stage is StageConfirmingLocation.
type SessionState struct {
	Stage         Stage           `json:"stage,omitempty"`
	Staged        *StagedLocation `json:"staged,omitempty"`
	OnboardingAck bool            `json:"onboarding_ack,omitempty"`
}

// TurnOverrides carries slot values for the current turn only
type TurnOverrides struct {
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
	Prayer       string `json:"prayer,omitempty"`
	Date         string `json:"date,omitempty"`
	ReminderText string `json:"reminder_text,omitempty"`
	ReminderTime string `json:"reminder_time,omitempty"`
}

// ClearConsumed drops the location, prayer and date overrides
func (o *TurnOverrides) ClearConsumed() {
	o.City = ""
	o.Country = ""
	o.Prayer = ""
	o.Date = ""
}

// ClearReminder drops the reminder overrides
func (o *TurnOverrides) ClearReminder() {
	o.ReminderText = ""
	o.ReminderTime = ""
}

// History roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryEntry is one stored chat message
type HistoryEntry struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Turn is one request/response cycle
type Turn struct {
	ID      string
	UserID  string
	Input   string
	Profile *Profile
	History []HistoryEntry
	Intent  Intent
	Reply   string
}

// HijriDate holds the structured hijri fields of a prayer-times response
type HijriDate struct {
	Date        string
	Day         string
	Year        string
	MonthNumber int
	MonthEn     string
	MonthAr     string
	WeekdayEn   string
	WeekdayAr   string
}

// PrayerDay is one day of prayer times for a location
type PrayerDay struct {
	Timings   map[string]string
	Timezone  string
	Hijri     HijriDate
	Gregorian string
}

// Reminder is a scheduled user message
type Reminder struct {
	ID     string `json:"id"`
	UserID string `json:"wa_id"`
	Text   string `json:"text"`
	DueUTC int64  `json:"due_utc"`
}

// CalendarResult is the outcome of a calendar tool call
type CalendarResult struct {
	Success bool   `json:"success"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
