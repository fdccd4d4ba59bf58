package mocks

import (
	"context"
	"strings"

	"github.com/SyedMHaroon/NamazBot/domain"
)

// MockPrayerTimesAPI implements domain.PrayerTimesAPI interface for testing
type MockPrayerTimesAPI struct {
	FetchFunc func(ctx context.Context, city, country, date string) (*domain.PrayerDay, error)
	Calls     []PrayerCall
}

// PrayerCall records the arguments of one Fetch call
type PrayerCall struct {
	City, Country, Date string
}

// NewMockPrayerTimesAPI creates a new MockPrayerTimesAPI with default behaviors
func NewMockPrayerTimesAPI() *MockPrayerTimesAPI {
	return &MockPrayerTimesAPI{}
}

// Fetch returns one day of prayer times
func (m *MockPrayerTimesAPI) Fetch(ctx context.Context, city, country, date string) (*domain.PrayerDay, error) {
	m.Calls = append(m.Calls, PrayerCall{City: city, Country: country, Date: date})
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, city, country, date)
	}
	// Default behavior: a fixed Lahore day
	return SamplePrayerDay(), nil
}

// SamplePrayerDay returns a complete prayer day (test helper)
func SamplePrayerDay() *domain.PrayerDay {
	return &domain.PrayerDay{
		Timings: map[string]string{
			"Fajr":    "05:01",
			"Sunrise": "06:20",
			"Dhuhr":   "11:55",
			"Asr":     "15:05",
			"Maghrib": "17:30",
			"Isha":    "18:48",
		},
		Timezone:  "Asia/Karachi",
		Gregorian: "29 Oct 2025",
		Hijri: domain.HijriDate{
			Date:        "07-05-1447",
			Day:         "07",
			Year:        "1447",
			MonthNumber: 5,
			MonthEn:     "Jumādá al-ūlá",
			MonthAr:     "جُمادى الأولى",
			WeekdayEn:   "Al Arba'a",
			WeekdayAr:   "الاربعاء",
		},
	}
}

// Compile-time interface compliance verification
var _ domain.PrayerTimesAPI = (*MockPrayerTimesAPI)(nil)

// MockLLM implements domain.LLM interface for testing
type MockLLM struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
	Prompts      []string
}

// NewMockLLM creates a new MockLLM with default behaviors
func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// Complete completes a prompt
func (m *MockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	// Default behavior: empty completion
	return "", domain.ErrLLMEmpty
}

// PromptContaining returns the first recorded prompt containing s (test helper)
func (m *MockLLM) PromptContaining(s string) string {
	for _, p := range m.Prompts {
		if strings.Contains(p, s) {
			return p
		}
	}
	return ""
}

// Compile-time interface compliance verification
var _ domain.LLM = (*MockLLM)(nil)

// MockMessenger implements domain.Messenger interface for testing
type MockMessenger struct {
	SendTextFunc func(ctx context.Context, to, body string) error
	Sent         []SentMessage
}

// SentMessage records one outbound message
type SentMessage struct {
	To, Body string
}

// NewMockMessenger creates a new MockMessenger with default behaviors
func NewMockMessenger() *MockMessenger {
	return &MockMessenger{}
}

// SendText sends a text message
func (m *MockMessenger) SendText(ctx context.Context, to, body string) error {
	if m.SendTextFunc != nil {
		if err := m.SendTextFunc(ctx, to, body); err != nil {
			return err
		}
	}
	// Default behavior: success (no actual message sent in tests)
	m.Sent = append(m.Sent, SentMessage{To: to, Body: body})
	return nil
}

// Compile-time interface compliance verification
var _ domain.Messenger = (*MockMessenger)(nil)
