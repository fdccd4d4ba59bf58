package domain

import "strings"

// Intent is the label that selects a turn handler
type Intent string

const (
	IntentIslamicDate     Intent = "islamic_date"
	IntentPrayerTimes     Intent = "prayer_times"
	IntentNextPrayer      Intent = "next_prayer"
	IntentReminder        Intent = "reminder"
	IntentCalendarConnect Intent = "calendar_connect"
	IntentCalendarCreate  Intent = "calendar_create"
	IntentCalendarView    Intent = "calendar_view"
	IntentCalendarFind    Intent = "calendar_find"
	IntentCalendarDelete  Intent = "calendar_delete"
	IntentGeneral         Intent = "general"
)

// Intents lists every label the classifier may return
var Intents = []Intent{
	IntentIslamicDate,
	IntentPrayerTimes,
	IntentNextPrayer,
	IntentReminder,
	IntentCalendarConnect,
	IntentCalendarCreate,
	IntentCalendarView,
	IntentCalendarFind,
	IntentCalendarDelete,
	IntentGeneral,
}

// ParseIntent maps a raw label onto the fixed set, falling back to IntentGeneral
func ParseIntent(raw string) Intent {
	label := Intent(strings.ToLower(strings.TrimSpace(raw)))
	for _, in := range Intents {
		if in == label {
			return in
		}
	}
	return IntentGeneral
}

// IsCalendar reports whether the intent is a calendar operation
func (i Intent) IsCalendar() bool {
	return strings.HasPrefix(string(i), "calendar_")
}

// Slots are optional values extracted from the utterance
type Slots struct {
	PrayerName   *string `json:"prayer_name"`
	Date         *string `json:"date"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	ReminderText *string `json:"reminder_text"`
	ReminderTime *string `json:"reminder_time"`
}

// Classification is the validated classifier output
type Classification struct {
	Intent Intent `json:"intent"`
	Slots  Slots  `json:"slots"`
}

// DefaultClassification is used whenever classifier output cannot be trusted
func DefaultClassification() Classification {
	return Classification{Intent: IntentGeneral}
}
