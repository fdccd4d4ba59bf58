package domain

import (
	"context"
	"time"
)

// ProfileStore loads and saves the full profile of a user.
// Durable fields fill in only when the session copy lacks them.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Set(ctx context.Context, userID string, profile *Profile) error
}

// ProfileRepository defines durable profile data access operations
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}

// SessionRepository defines session cache operations
type SessionRepository interface {
	Find(ctx context.Context, userID string) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, userID string) error
}

// MessageRepository defines durable chat message operations
type MessageRepository interface {
	Append(ctx context.Context, userID, role, text string) error
	FetchLast(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
}

// MessageHistory records and returns recent conversation turns
type MessageHistory interface {
	AppendTurn(ctx context.Context, userID, userText, botText string) error
	FetchRecent(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
}

// PrayerTimesAPI fetches one day of prayer times.
// An empty country queries by address; an empty date means today.
type PrayerTimesAPI interface {
	Fetch(ctx context.Context, city, country, date string) (*PrayerDay, error)
}

// LLM completes a prompt into free text
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ReminderQueue stores reminders ordered by due time
type ReminderQueue interface {
	Enqueue(ctx context.Context, userID, text string, dueUTC int64) error
	PopDue(ctx context.Context, now time.Time) ([]Reminder, error)
}

// SubscriptionRepository manages the daily digest subscriber list
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, userID string) error
	Unsubscribe(ctx context.Context, userID string) error
	IsSubscribed(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

// IdempotencyRepository detects redelivered inbound messages
type IdempotencyRepository interface {
	AlreadySeen(ctx context.Context, userID, messageID string) (bool, error)
}

// DedupeStore claims a key once per TTL window; true means first claim
type DedupeStore interface {
	Once(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// CalendarConnectionRepository maps users to their calendar tool server
type CalendarConnectionRepository interface {
	FindServerURL(ctx context.Context, userID string) (string, error)
	Save(ctx context.Context, userID, serverURL string) error
	Delete(ctx context.Context, userID string) error
}

// CalendarBridge runs calendar tools on behalf of a user
type CalendarBridge interface {
	IsConnected(ctx context.Context, userID string) Result[bool]
	CallTool(ctx context.Context, userID, tool string, params map[string]any) CalendarResult
	ConnectLink(userID string) string
}

// Messenger delivers outbound text messages
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}

// TokenService defines admin token operations
type TokenService interface {
	GenerateAccessToken(subject, role string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// CasbinEnforcer defines the methods we need from the Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	Subject   string `json:"sub"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TurnService runs one conversational turn and always produces a reply
type TurnService interface {
	HandleTurn(ctx context.Context, userID, text string) string
}

// IntentClassifier labels an utterance and extracts its slots
type IntentClassifier interface {
	Classify(ctx context.Context, utterance string, history []HistoryEntry) Classification
}

// LocationValidator parses and validates user supplied locations
type LocationValidator interface {
	ParseCityCountry(line string) (city, country string)
	SuggestCountry(name string) string
	Validate(ctx context.Context, city, country string) Result[string]
}

// SchedulerService runs the periodic delivery jobs
type SchedulerService interface {
	RunReminderTick(ctx context.Context) error
	RunDigestTick(ctx context.Context) error
	RunPrayerReminderTick(ctx context.Context) error
}
