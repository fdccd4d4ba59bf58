package domain

import (
	"context"
	"time"
)

// EventType defines the type of bot event
type EventType string

const (
	// Conversation events
	TurnHandledEvent         EventType = "TURN_HANDLED"
	TurnFailedEvent          EventType = "TURN_FAILED"
	OnboardingCompletedEvent EventType = "ONBOARDING_COMPLETED"
	ClassifierFallbackEvent  EventType = "CLASSIFIER_FALLBACK"

	// Delivery events
	ReminderScheduledEvent EventType = "REMINDER_SCHEDULED"
	ReminderSentEvent      EventType = "REMINDER_SENT"
	DigestSentEvent        EventType = "DIGEST_SENT"
	PrayerReminderEvent    EventType = "PRAYER_REMINDER_SENT"
	DeliveryFailedEvent    EventType = "DELIVERY_FAILED"
)

// Event represents something that happened while serving a user
type Event struct {
	EventType EventType              `json:"event_type"`
	UserID    string                 `json:"user_id"`
	TurnID    string                 `json:"turn_id,omitempty"`
	Intent    Intent                 `json:"intent,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// EventLogger records bot events
type EventLogger interface {
	LogEvent(ctx context.Context, event *Event)
}

// NewEvent creates a new event with common fields populated
func NewEvent(eventType EventType, userID string) *Event {
	return &Event{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithTurn sets the turn id and intent
func (e *Event) WithTurn(turnID string, intent Intent) *Event {
	e.TurnID = turnID
	e.Intent = intent
	return e
}

// WithMetadata adds metadata to the event
func (e *Event) WithMetadata(key string, value interface{}) *Event {
	e.Metadata[key] = value
	return e
}
