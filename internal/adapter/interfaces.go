// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

// Package adapter provides transport-layer abstractions for communicating
// with the password safe server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// service layer from the underlying protocol. The package ships an HTTP/JSON
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/dkotelnikov/go-password-safe/models"
)

// ServerAdapter defines transport-agnostic communication with the password
// safe server. Implementations are responsible for serialisation, session
// cookie management, and mapping transport-level errors to the sentinel
// values defined in this package.
//
// All digests, ciphertexts, and IVs cross this boundary as raw bytes; the
// implementation owns their wire encoding.
type ServerAdapter interface {
	// Signup registers a new account. passwordDigest is H(password),
	// computed by the caller.
	Signup(ctx context.Context, username, email string, passwordDigest []byte) error

	// Identify fetches the login parameters for username: a single-use
	// challenge and the account's salt.
	Identify(ctx context.Context, username string) (challenge, salt []byte, err error)

	// Login submits the challenge response. On success the returned session
	// cookie is stored and attached to all subsequent requests.
	Login(ctx context.Context, username string, response []byte) error

	// Logout terminates the server-side session and drops the stored cookie.
	Logout(ctx context.Context) error

	// Sites lists the authenticated user's saved site names.
	Sites(ctx context.Context) ([]string, error)

	// Save uploads one encrypted vault entry.
	Save(ctx context.Context, site, siteUser string, ciphertext, iv []byte) error

	// Load fetches the encrypted vault entry for site.
	Load(ctx context.Context, site string) (models.VaultEntry, error)

	// Authenticated reports whether the adapter currently holds a session
	// cookie.
	Authenticated() bool
}
