package session

import "time"

// Session is an authenticated identity plus its bearer token
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EventType identifies an auth-state change
type EventType string

const (
	EventSignedIn  EventType = "SIGNED_IN"
	EventSignedOut EventType = "SIGNED_OUT"
)

// AuthEvent is pushed to subscribers whenever a sign-in or sign-out happens.
// Session is nil for sign-out events.
type AuthEvent struct {
	Type    EventType
	Session *Session
}
