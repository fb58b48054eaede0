package http

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/service"
	"github.com/dkotelnikov/go-password-safe/internal/store"
	"github.com/dkotelnikov/go-password-safe/internal/utils"
	"github.com/dkotelnikov/go-password-safe/models"
)

// ─────────────────────────────────────────────
// Mock VaultService
// ─────────────────────────────────────────────

type mockVaultService struct {
	sitesFn func(ctx context.Context, username string) ([]string, error)
	saveFn  func(ctx context.Context, entry models.VaultEntry) error
	loadFn  func(ctx context.Context, username, site string) (models.VaultEntry, error)
}

func (m *mockVaultService) Sites(ctx context.Context, username string) ([]string, error) {
	return m.sitesFn(ctx, username)
}

func (m *mockVaultService) Save(ctx context.Context, entry models.VaultEntry) error {
	return m.saveFn(ctx, entry)
}

func (m *mockVaultService) Load(ctx context.Context, username, site string) (models.VaultEntry, error) {
	return m.loadFn(ctx, username, site)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func newHandlerWithVault(t *testing.T, vault service.VaultService) *Handler {
	t.Helper()
	return NewHandler(&service.Services{VaultService: vault}, logger.Nop())
}

// asUser attaches an authenticated username to the request context the way
// the auth middleware would.
func asUser(req *http.Request, username string) *http.Request {
	ctx := context.WithValue(req.Context(), utils.UsernameCtxKey, username)
	return req.WithContext(ctx)
}

// ─────────────────────────────────────────────
// sites
// ─────────────────────────────────────────────

func TestSites_Success(t *testing.T) {
	vault := &mockVaultService{
		sitesFn: func(_ context.Context, username string) ([]string, error) {
			assert.Equal(t, "arthur", username)
			return []string{"bank.example", "mail.example"}, nil
		},
	}

	h := newHandlerWithVault(t, vault)
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/sites", nil), "arthur")
	rec := httptest.NewRecorder()

	h.sites(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.Equal(t, models.StatusSuccess, envelope.Status)

	var sites models.SitesResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &sites))
	assert.Equal(t, []string{"bank.example", "mail.example"}, sites.Sites)
}

func TestSites_EmptyVault(t *testing.T) {
	vault := &mockVaultService{
		sitesFn: func(_ context.Context, _ string) ([]string, error) {
			return []string{}, nil
		},
	}

	h := newHandlerWithVault(t, vault)
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/sites", nil), "arthur")
	rec := httptest.NewRecorder()

	h.sites(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var sites models.SitesResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sites))
	assert.NotNil(t, sites.Sites)
	assert.Empty(t, sites.Sites)
}

func TestSites_NoUsernameInContext(t *testing.T) {
	h := newHandlerWithVault(t, &mockVaultService{})
	req := httptest.NewRequest(http.MethodGet, "/api/sites", nil)
	rec := httptest.NewRecorder()

	h.sites(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ─────────────────────────────────────────────
// save
// ─────────────────────────────────────────────

func TestSave_Success(t *testing.T) {
	ciphertext := make([]byte, 32)
	iv := make([]byte, 16)

	var saved models.VaultEntry
	vault := &mockVaultService{
		saveFn: func(_ context.Context, entry models.VaultEntry) error {
			saved = entry
			return nil
		},
	}

	h := newHandlerWithVault(t, vault)
	body := jsonBody(t, models.SaveRequest{
		Site:       "example.com",
		SiteUser:   "arthur.d",
		Ciphertext: hex.EncodeToString(ciphertext),
		IV:         hex.EncodeToString(iv),
	})
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/save", strings.NewReader(body)), "arthur")
	rec := httptest.NewRecorder()

	h.save(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "arthur", saved.Username, "ownership comes from the session, not the body")
	assert.Equal(t, "example.com", saved.Site)
	assert.Equal(t, ciphertext, saved.Ciphertext)
	assert.Equal(t, iv, saved.IV)
}

func TestSave_MalformedIV(t *testing.T) {
	h := newHandlerWithVault(t, &mockVaultService{})
	body := jsonBody(t, models.SaveRequest{
		Site:       "example.com",
		SiteUser:   "arthur.d",
		Ciphertext: hex.EncodeToString(make([]byte, 32)),
		IV:         "zz",
	})
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/save", strings.NewReader(body)), "arthur")
	rec := httptest.NewRecorder()

	h.save(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// load
// ─────────────────────────────────────────────

func TestLoad_Success(t *testing.T) {
	ciphertext := []byte("0123456789abcdef0123456789abcdef")
	iv := []byte("fedcba9876543210")

	vault := &mockVaultService{
		loadFn: func(_ context.Context, username, site string) (models.VaultEntry, error) {
			assert.Equal(t, "arthur", username)
			assert.Equal(t, "example.com", site)
			return models.VaultEntry{
				Username:   username,
				Site:       site,
				SiteUser:   "arthur.d",
				Ciphertext: ciphertext,
				IV:         iv,
			}, nil
		},
	}

	h := newHandlerWithVault(t, vault)
	body := jsonBody(t, models.LoadRequest{Site: "example.com"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/load", strings.NewReader(body)), "arthur")
	rec := httptest.NewRecorder()

	h.load(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var loaded models.LoadResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &loaded))
	assert.Equal(t, "arthur.d", loaded.SiteUser)
	assert.Equal(t, hex.EncodeToString(ciphertext), loaded.Ciphertext)
	assert.Equal(t, hex.EncodeToString(iv), loaded.IV)
}

func TestLoad_NotFound(t *testing.T) {
	vault := &mockVaultService{
		loadFn: func(_ context.Context, _, _ string) (models.VaultEntry, error) {
			return models.VaultEntry{}, store.ErrEntryNotFound
		},
	}

	h := newHandlerWithVault(t, vault)
	body := jsonBody(t, models.LoadRequest{Site: "unknown.example"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/load", strings.NewReader(body)), "arthur")
	rec := httptest.NewRecorder()

	h.load(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.StatusFailure, decodeEnvelope(t, rec).Status)
}
