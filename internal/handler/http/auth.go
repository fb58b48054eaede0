// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package http

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/service"
	"github.com/dkotelnikov/go-password-safe/internal/store"
	"github.com/dkotelnikov/go-password-safe/models"
)

// sessionCookieName is the HTTP-only cookie carrying the hex-encoded opaque
// session id.
const sessionCookieName = "session"

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeFailure(w, r, http.StatusBadRequest, "Invalid JSON was passed.")
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("invalid signup data provided")
		writeFailure(w, r, http.StatusBadRequest, "Invalid account details provided.")
		return
	}

	// Validation guarantees the digest decodes to the right length.
	passwordDigest, _ := hex.DecodeString(request.PasswordDigest)

	_, err := h.services.AuthService.Signup(ctx, request.Username, request.Email, passwordDigest)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeFailure(w, r, http.StatusBadRequest, "Invalid account details provided.")
			return
		case errors.Is(err, store.ErrDuplicateAccount):
			log.Err(err).Msg("account already exists")
			writeFailure(w, r, http.StatusConflict, "Username or email is already taken.")
			return
		default:
			log.Err(err).Msg("unexpected error occurred during signup")
			writeFailure(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
	}

	writeSuccess(w, r, http.StatusCreated, "Account created.", nil)
}

// identify never reveals whether the username exists: both outcomes are the
// same 200 with a challenge and a salt.
func (h *Handler) identify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeFailure(w, r, http.StatusBadRequest, "Invalid JSON was passed.")
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("invalid identify data provided")
		writeFailure(w, r, http.StatusBadRequest, "Invalid username provided.")
		return
	}

	challenge, salt, err := h.services.AuthService.Identify(ctx, request.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeFailure(w, r, http.StatusBadRequest, "Invalid username provided.")
			return
		default:
			log.Err(err).Msg("unexpected error occurred during identify")
			writeFailure(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
	}

	writeSuccess(w, r, http.StatusOK, "Login parameters.", models.IdentifyResponse{
		Challenge: hex.EncodeToString(challenge),
		Salt:      hex.EncodeToString(salt),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeFailure(w, r, http.StatusBadRequest, "Invalid JSON was passed.")
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("invalid login data provided")
		writeFailure(w, r, http.StatusBadRequest, "Invalid login details provided.")
		return
	}

	response, _ := hex.DecodeString(request.ResponseDigest)

	session, err := h.services.AuthService.Login(ctx, request.Username, response)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeFailure(w, r, http.StatusBadRequest, "Invalid login details provided.")
			return
		case errors.Is(err, service.ErrWrongResponse):
			log.Err(err).Msg("login failed")
			writeFailure(w, r, http.StatusUnauthorized, "Wrong username or password.")
			return
		default:
			log.Err(err).Msg("unexpected error occurred during login")
			writeFailure(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    hex.EncodeToString(session.ID),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	writeSuccess(w, r, http.StatusOK, "Successfully logged in.", nil)
}

// logout is deliberately outside the auth middleware: it succeeds with or
// without a valid cookie, so retries and stale clients never see an error.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if sessionID, err := sessionIDFromRequest(r); err == nil {
		if err = h.services.AuthService.Logout(ctx, sessionID); err != nil {
			log.Err(err).Msg("unexpected error occurred during logout")
			writeFailure(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	writeSuccess(w, r, http.StatusOK, "Logged out.", nil)
}

// sessionIDFromRequest extracts and decodes the session cookie.
func sessionIDFromRequest(r *http.Request) ([]byte, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, ErrNoSessionCookie
	}

	sessionID, err := hex.DecodeString(cookie.Value)
	if err != nil || len(sessionID) == 0 {
		return nil, ErrMalformedSessionCookie
	}

	return sessionID, nil
}
