// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package http

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/service"
	"github.com/dkotelnikov/go-password-safe/internal/store"
	"github.com/dkotelnikov/go-password-safe/models"
)

// ─────────────────────────────────────────────
// Mock AuthService
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	signupFn    func(ctx context.Context, username, email string, passwordDigest []byte) (models.Account, error)
	identifyFn  func(ctx context.Context, username string) ([]byte, []byte, error)
	loginFn     func(ctx context.Context, username string, response []byte) (models.Session, error)
	authorizeFn func(ctx context.Context, sessionID []byte) (string, error)
	logoutFn    func(ctx context.Context, sessionID []byte) error
}

func (m *mockAuthService) Signup(ctx context.Context, username, email string, passwordDigest []byte) (models.Account, error) {
	return m.signupFn(ctx, username, email, passwordDigest)
}

func (m *mockAuthService) Identify(ctx context.Context, username string) ([]byte, []byte, error) {
	return m.identifyFn(ctx, username)
}

func (m *mockAuthService) Login(ctx context.Context, username string, response []byte) (models.Session, error) {
	return m.loginFn(ctx, username, response)
}

func (m *mockAuthService) Authorize(ctx context.Context, sessionID []byte) (string, error) {
	return m.authorizeFn(ctx, sessionID)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID []byte) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newHandlerWithAuth builds a Handler with the given AuthService mock.
func newHandlerWithAuth(t *testing.T, auth service.AuthService) *Handler {
	t.Helper()
	return NewHandler(&service.Services{AuthService: auth}, logger.Nop())
}

// jsonBody serialises v to a JSON request body string.
func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// decodeEnvelope parses the response body envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var envelope models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func validSignupBody(t *testing.T) string {
	t.Helper()
	return jsonBody(t, models.SignupRequest{
		Username:       "arthur",
		Email:          "arthur@example.com",
		PasswordDigest: hex.EncodeToString(make([]byte, 32)),
	})
}

// ─────────────────────────────────────────────
// signup
// ─────────────────────────────────────────────

func TestSignup_Success(t *testing.T) {
	auth := &mockAuthService{
		signupFn: func(_ context.Context, username, email string, passwordDigest []byte) (models.Account, error) {
			assert.Equal(t, "arthur", username)
			assert.Equal(t, "arthur@example.com", email)
			assert.Len(t, passwordDigest, 32)
			return models.Account{Username: username}, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(validSignupBody(t)))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, models.StatusSuccess, envelope.Status)
	assert.Equal(t, "Account created.", envelope.Message)
}

func TestSignup_InvalidJSON(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.StatusFailure, decodeEnvelope(t, rec).Status)
}

func TestSignup_MalformedDigest(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})
	body := jsonBody(t, models.SignupRequest{
		Username:       "arthur",
		Email:          "arthur@example.com",
		PasswordDigest: "not-hex-at-all",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignup_Duplicate(t *testing.T) {
	auth := &mockAuthService{
		signupFn: func(_ context.Context, _, _ string, _ []byte) (models.Account, error) {
			return models.Account{}, store.ErrDuplicateAccount
		},
	}

	h := newHandlerWithAuth(t, auth)
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(validSignupBody(t)))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, models.StatusFailure, decodeEnvelope(t, rec).Status)
}

func TestSignup_UnexpectedError(t *testing.T) {
	auth := &mockAuthService{
		signupFn: func(_ context.Context, _, _ string, _ []byte) (models.Account, error) {
			return models.Account{}, errors.New("db down")
		},
	}

	h := newHandlerWithAuth(t, auth)
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(validSignupBody(t)))
	rec := httptest.NewRecorder()

	h.signup(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ─────────────────────────────────────────────
// identify
// ─────────────────────────────────────────────

func TestIdentify_Success(t *testing.T) {
	challenge := []byte("fedcba9876543210")
	salt := []byte("0123456789abcdef")

	auth := &mockAuthService{
		identifyFn: func(_ context.Context, username string) ([]byte, []byte, error) {
			assert.Equal(t, "arthur", username)
			return challenge, salt, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	body := jsonBody(t, models.IdentifyRequest{Username: "arthur"})
	req := httptest.NewRequest(http.MethodPost, "/api/identify", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.identify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.Equal(t, models.StatusSuccess, envelope.Status)

	var identity models.IdentifyResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &identity))
	assert.Equal(t, hex.EncodeToString(challenge), identity.Challenge)
	assert.Equal(t, hex.EncodeToString(salt), identity.Salt)
}

func TestIdentify_EmptyUsername(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})
	body := jsonBody(t, models.IdentifyRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/identify", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.identify(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// login
// ─────────────────────────────────────────────

func TestLogin_SuccessSetsSessionCookie(t *testing.T) {
	sessionID := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	auth := &mockAuthService{
		loginFn: func(_ context.Context, username string, response []byte) (models.Session, error) {
			assert.Equal(t, "arthur", username)
			assert.Len(t, response, 32)
			return models.Session{ID: sessionID, Username: username, ExpiresAt: time.Now().Add(10 * time.Minute)}, nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	body := jsonBody(t, models.LoginRequest{
		Username:       "arthur",
		ResponseDigest: hex.EncodeToString(make([]byte, 32)),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully logged in.", decodeEnvelope(t, rec).Message)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, hex.EncodeToString(sessionID), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly, "session cookie must be HTTP-only")
}

func TestLogin_WrongResponse(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(_ context.Context, _ string, _ []byte) (models.Session, error) {
			return models.Session{}, service.ErrWrongResponse
		},
	}

	h := newHandlerWithAuth(t, auth)
	body := jsonBody(t, models.LoginRequest{
		Username:       "arthur",
		ResponseDigest: hex.EncodeToString(make([]byte, 32)),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "a failed login must not set a cookie")
}

func TestLogin_ShortResponseDigest(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})
	body := jsonBody(t, models.LoginRequest{
		Username:       "arthur",
		ResponseDigest: hex.EncodeToString(make([]byte, 8)),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.login(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// logout
// ─────────────────────────────────────────────

func TestLogout_WithCookie(t *testing.T) {
	sessionID := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	loggedOut := false
	auth := &mockAuthService{
		logoutFn: func(_ context.Context, id []byte) error {
			loggedOut = true
			assert.Equal(t, sessionID, id)
			return nil
		},
	}

	h := newHandlerWithAuth(t, auth)
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: hex.EncodeToString(sessionID)})
	rec := httptest.NewRecorder()

	h.logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, loggedOut)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0, "logout must expire the cookie")
}

func TestLogout_WithoutCookieStillSucceeds(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()

	h.logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusSuccess, decodeEnvelope(t, rec).Status)
}
