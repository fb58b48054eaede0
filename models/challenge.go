package models

import "time"

// Challenge is the single outstanding login challenge for one account.
// A new identify request overwrites the previous row, so at most one
// challenge per username exists at any time. The challenge is logically
// single-use: any login attempt, successful or not, consumes it.
type Challenge struct {
	// Username of the account this challenge was issued for.
	Username string

	// Value is 16 random bytes sent to the client during identification.
	Value []byte

	// ExpiresAt is the absolute expiry timestamp. The challenge is valid
	// only while now < ExpiresAt; expiry is enforced at validation time,
	// stale rows are never swept.
	ExpiresAt time.Time
}

// Expired reports whether the challenge is no longer usable at the given time.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// TableName returns the name of the database table
// associated with the Challenge model.
func (c Challenge) TableName() string {
	return "challenges"
}
