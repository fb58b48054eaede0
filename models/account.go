package models

import "time"

// Account represents a registered user of the password safe.
// It contains identity attributes and the salted credential digest used by
// the challenge-response login protocol. Sensitive fields must never be
// exposed outside trusted boundaries.
type Account struct {
	// Username is the unique primary identity of the account.
	Username string `json:"username"`

	// Email is the account contact address. Unique across accounts.
	Email string `json:"email"`

	// Salt is 16 random bytes generated at signup, never reused across
	// accounts. It is public protocol material: identify returns it to the
	// client so the client can recompute the stored digest locally.
	Salt []byte `json:"-"`

	// Digest is SHA-256(passwordDigest ‖ salt) where passwordDigest is the
	// client-computed SHA-256 of the raw password. The server never sees the
	// raw password and login responses are checked against this value.
	Digest []byte `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// ModifiedAt tracks the last mutation of the account row.
	ModifiedAt time.Time `json:"modified_at"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
