package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/sessiontoken"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Store:       config.SessionStoreMemory,
		TTL:         time.Hour,
		TokenSecret: "test-secret",
		TokenIssuer: "storefront-test",
	}
}

func captureSession(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestSessionMintsTokenWhenMissing(t *testing.T) {
	cfg := testSessionConfig()
	var seen string

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	Session(cfg, nil)(captureSession(&seen)).ServeHTTP(rec, req)

	require.NotEmpty(t, seen)
	token := rec.Header().Get(SessionTokenHeader)
	require.NotEmpty(t, token)

	claims, err := sessiontoken.Parse(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, seen, claims.SessionID)
}

func TestSessionReusesValidToken(t *testing.T) {
	cfg := testSessionConfig()
	token, err := sessiontoken.Mint(cfg, time.Now(), "sess-123")
	require.NoError(t, err)

	var seen string
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set(SessionTokenHeader, token)
	rec := httptest.NewRecorder()
	Session(cfg, nil)(captureSession(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, "sess-123", seen)
	assert.Equal(t, token, rec.Header().Get(SessionTokenHeader))
}

func TestSessionReplacesInvalidToken(t *testing.T) {
	cfg := testSessionConfig()
	other := cfg
	other.TokenSecret = "someone-else"
	forged, err := sessiontoken.Mint(other, time.Now(), "sess-forged")
	require.NoError(t, err)

	var seen string
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set(SessionTokenHeader, forged)
	rec := httptest.NewRecorder()
	Session(cfg, nil)(captureSession(&seen)).ServeHTTP(rec, req)

	assert.NotEqual(t, "sess-forged", seen)
	assert.NotEqual(t, forged, rec.Header().Get(SessionTokenHeader))
}

func TestSessionReplacesExpiredToken(t *testing.T) {
	cfg := testSessionConfig()
	expired, err := sessiontoken.Mint(cfg, time.Now().Add(-2*time.Hour), "sess-old")
	require.NoError(t, err)

	var seen string
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set(SessionTokenHeader, expired)
	rec := httptest.NewRecorder()
	Session(cfg, nil)(captureSession(&seen)).ServeHTTP(rec, req)

	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "sess-old", seen)
}

func TestSessionFailsWithoutSecret(t *testing.T) {
	cfg := testSessionConfig()
	cfg.TokenSecret = ""

	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	rec := httptest.NewRecorder()
	Session(cfg, nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
