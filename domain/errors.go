package domain

import "errors"

// Profile errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrMissingUserID   = errors.New("missing user id")
)

// Location errors
var (
	ErrLocationMalformed = errors.New("location must look like City - Country")
	ErrCountryUnknown    = errors.New("country not recognized")
	ErrLocationInvalid   = errors.New("location could not be validated")
)

// External service errors
var (
	ErrPrayerAPI            = errors.New("prayer times api failure")
	ErrLLMEmpty             = errors.New("llm returned empty completion")
	ErrCalendarNotConnected = errors.New("calendar not connected")
	ErrCalendarTool         = errors.New("calendar tool failure")
	ErrUnknown              = errors.New("unknown failure")
)

// Delivery errors
var (
	ErrDuplicateMessage = errors.New("message already processed")
	ErrReminderTime     = errors.New("reminder time not understood")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)
