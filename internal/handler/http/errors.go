// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package http

import "errors"

// Sentinel errors used by the authentication middleware when resolving the
// session cookie. Callers can match against them with [errors.Is].
var (
	// ErrNoSessionCookie is returned by the auth middleware when the incoming
	// request carries no "session" cookie at all.
	ErrNoSessionCookie = errors.New("no `session` cookie")

	// ErrMalformedSessionCookie is returned when the cookie is present but
	// its value is not a valid hex-encoded session id.
	ErrMalformedSessionCookie = errors.New("malformed `session` cookie")
)
