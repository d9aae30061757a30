package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated browser session
type Session struct {
	ID             string    `json:"id"` // This is the session token
	UserID         string    `json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// SessionDuration is the cookie/session lifetime (30 days, matching the PWA client)
const SessionDuration = 30 * 24 * time.Hour

// NewSession creates a session for a user
func NewSession(userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             uuid.New().String(),
		UserID:         userID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(SessionDuration),
		LastActivityAt: now,
	}
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// Session errors
var (
	ErrSessionNotFound = SessionError{"session not found"}
	ErrUnauthenticated = SessionError{"not authenticated"}
)

type SessionError struct {
	Message string
}

func (e SessionError) Error() string {
	return e.Message
}
