// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package adapter

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/dkotelnikov/go-password-safe/internal/config"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/utils"
	"github.com/dkotelnikov/go-password-safe/models"
)

// sessionCookieName is the name of the HTTP-only cookie carrying the opaque
// session id. Must match what the server sets on login.
const sessionCookieName = "session"

type httpServerAdapter struct {
	client *utils.HTTPClient

	// session is the cookie received from the last successful login, attached
	// to every authenticated request until Logout.
	session *http.Cookie

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/JSON implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Authenticated implements [ServerAdapter].
func (h *httpServerAdapter) Authenticated() bool {
	return h.session != nil
}

// request starts a JSON request, attaching the session cookie when present.
func (h *httpServerAdapter) request(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if h.session != nil {
		req.SetCookie(h.session)
	}
	return req
}

// decodeData unmarshals the envelope in resp and then its Data payload into
// out. Pass nil to only verify the envelope.
func decodeData(resp *resty.Response, out any) error {
	var envelope models.Response
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("%w: %w", ErrBadServerReply, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrBadServerReply, err)
	}
	return nil
}

// Signup implements [ServerAdapter]. It POSTs the account details to
// POST /api/signup. Returns [ErrConflict] (wrapped) when the username or
// email is already taken.
func (h *httpServerAdapter) Signup(ctx context.Context, username, email string, passwordDigest []byte) error {
	body := models.SignupRequest{
		Username:       username,
		Email:          email,
		PasswordDigest: hex.EncodeToString(passwordDigest),
	}

	resp, err := h.request(ctx).SetBody(body).Post("/api/signup")
	if err != nil {
		return fmt.Errorf("signup request: %w", err)
	}

	return mapHTTPError(resp)
}

// Identify implements [ServerAdapter]. It POSTs the username to
// POST /api/identify and decodes the returned challenge and salt.
func (h *httpServerAdapter) Identify(ctx context.Context, username string) ([]byte, []byte, error) {
	resp, err := h.request(ctx).
		SetBody(models.IdentifyRequest{Username: username}).
		Post("/api/identify")
	if err != nil {
		return nil, nil, fmt.Errorf("identify request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, nil, err
	}

	var identity models.IdentifyResponse
	if err = decodeData(resp, &identity); err != nil {
		return nil, nil, err
	}

	challenge, err := hex.DecodeString(identity.Challenge)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: challenge is not hex", ErrBadServerReply)
	}
	salt, err := hex.DecodeString(identity.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: salt is not hex", ErrBadServerReply)
	}

	return challenge, salt, nil
}

// Login implements [ServerAdapter]. It POSTs the challenge response to
// POST /api/login and, on success, stores the session cookie from the
// response for all subsequent authenticated requests.
func (h *httpServerAdapter) Login(ctx context.Context, username string, response []byte) error {
	body := models.LoginRequest{
		Username:       username,
		ResponseDigest: hex.EncodeToString(response),
	}

	resp, err := h.request(ctx).SetBody(body).Post("/api/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			h.session = cookie
			return nil
		}
	}

	return ErrNoSession
}

// Logout implements [ServerAdapter]. The stored cookie is dropped even when
// the server call fails: a client that cannot reach the server is still
// locally logged out.
func (h *httpServerAdapter) Logout(ctx context.Context) error {
	resp, err := h.request(ctx).Post("/api/logout")
	h.session = nil
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

// Sites implements [ServerAdapter].
func (h *httpServerAdapter) Sites(ctx context.Context) ([]string, error) {
	resp, err := h.request(ctx).Get("/api/sites")
	if err != nil {
		return nil, fmt.Errorf("sites request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var sites models.SitesResponse
	if err = decodeData(resp, &sites); err != nil {
		return nil, err
	}

	return sites.Sites, nil
}

// Save implements [ServerAdapter].
func (h *httpServerAdapter) Save(ctx context.Context, site, siteUser string, ciphertext, iv []byte) error {
	body := models.SaveRequest{
		Site:       site,
		SiteUser:   siteUser,
		Ciphertext: hex.EncodeToString(ciphertext),
		IV:         hex.EncodeToString(iv),
	}

	resp, err := h.request(ctx).SetBody(body).Post("/api/save")
	if err != nil {
		return fmt.Errorf("save request: %w", err)
	}

	return mapHTTPError(resp)
}

// Load implements [ServerAdapter]. Returns [ErrNotFound] (wrapped) when the
// user has no entry for site.
func (h *httpServerAdapter) Load(ctx context.Context, site string) (models.VaultEntry, error) {
	resp, err := h.request(ctx).
		SetBody(models.LoadRequest{Site: site}).
		Post("/api/load")
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("load request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VaultEntry{}, err
	}

	var loaded models.LoadResponse
	if err = decodeData(resp, &loaded); err != nil {
		return models.VaultEntry{}, err
	}

	ciphertext, err := hex.DecodeString(loaded.Ciphertext)
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("%w: ciphertext is not hex", ErrBadServerReply)
	}
	iv, err := hex.DecodeString(loaded.IV)
	if err != nil {
		return models.VaultEntry{}, fmt.Errorf("%w: iv is not hex", ErrBadServerReply)
	}

	return models.VaultEntry{
		Site:       loaded.Site,
		SiteUser:   loaded.SiteUser,
		Ciphertext: ciphertext,
		IV:         iv,
	}, nil
}
