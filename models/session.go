package models

import "time"

// Session is the server-side state behind an opaque bearer token.
// At most one live session exists per user: a repeated login refreshes the
// same row with a fresh id and expiry instead of inserting a second one.
type Session struct {
	// ID is the opaque bearer token, 8 random bytes. The client presents it
	// hex-encoded in an HTTP-only cookie; the server treats it as the only
	// proof of identity, never a client-supplied username.
	ID []byte

	// Username of the authenticated account.
	Username string

	// ExpiresAt is the absolute expiry timestamp, re-checked on every
	// protected request.
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer usable at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}
