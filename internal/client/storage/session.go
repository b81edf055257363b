package storage

import (
	"context"
	"time"
)

// SessionStorage stores the current login session on the client
type SessionStorage interface {
	// SaveSession replaces the stored session
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the stored session
	// Returns ErrSessionNotFound if nobody is logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout)
	// Returns ErrSessionNotFound if nothing was stored
	DeleteSession(ctx context.Context) error
}

// Session represents a logged-in user on this machine
type Session struct {
	ServerURL string `json:"server_url"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}

// Expired reports whether the token lifetime has passed at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(time.Unix(s.ExpiresAt, 0))
}
