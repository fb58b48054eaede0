package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/service"
	"github.com/dkotelnikov/go-password-safe/internal/utils"
)

// auth is an HTTP middleware that enforces session-cookie authentication.
//
// It extracts the hex-encoded session id from the "session" cookie, resolves
// it via [service.AuthService.Authorize], and — on success — stores the
// authenticated username in the request context under [utils.UsernameCtxKey]
// before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized in the following
// cases:
//   - The cookie is absent ([ErrNoSessionCookie]).
//   - The cookie value is not valid hex ([ErrMalformedSessionCookie]).
//   - The session is unknown or expired ([service.ErrUnauthorized]).
//
// Authorization always runs before any resource lookup, so an invalid
// session learns nothing about what exists on the server.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			log.Err(err).Send()
			writeFailure(w, r, http.StatusUnauthorized, "Not logged in.")
			return
		}

		ctx := r.Context()
		username, err := h.services.AuthService.Authorize(ctx, sessionID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnauthorized):
				log.Err(err).Msg("session rejected")
				writeFailure(w, r, http.StatusUnauthorized, "Session expired. Log in again.")
				return
			default:
				log.Err(err).Msg("error occurred during session authorization")
				writeFailure(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				return
			}
		}

		// Store the authenticated username in the context so that downstream
		// handlers can retrieve it without touching the cookie again.
		ctx = context.WithValue(ctx, utils.UsernameCtxKey, username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
