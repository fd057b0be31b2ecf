package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"emart-storefront/internal/tokenstore"
	"emart-storefront/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("page"))
	})
}

func TestRouteGate(t *testing.T) {
	gate := RouteGate(DefaultGateConfig())(okHandler())

	tests := []struct {
		name         string
		path         string
		signedIn     bool
		wantStatus   int
		wantLocation string
	}{
		{"protected anonymous", "/account", false, http.StatusTemporaryRedirect, "/auth/sign-in"},
		{"protected nested anonymous", "/orders/17", false, http.StatusTemporaryRedirect, "/auth/sign-in"},
		{"checkout anonymous", "/checkout", false, http.StatusTemporaryRedirect, "/auth/sign-in"},
		{"wishlist anonymous", "/wishlist", false, http.StatusTemporaryRedirect, "/auth/sign-in"},
		{"protected signed in", "/account/settings", true, http.StatusOK, ""},
		{"sign-in signed in", "/auth/sign-in", true, http.StatusTemporaryRedirect, "/"},
		{"sign-up signed in", "/auth/sign-up", true, http.StatusTemporaryRedirect, "/"},
		{"sign-in anonymous", "/auth/sign-in", false, http.StatusOK, ""},
		{"public page", "/products/cotton-tee", false, http.StatusOK, ""},
		{"segment boundary", "/accountant", false, http.StatusOK, ""},
		{"static asset", "/_next/static/chunks/main.js", false, http.StatusOK, ""},
		{"favicon", "/favicon.ico", true, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.signedIn {
				req.AddCookie(&http.Cookie{Name: tokenstore.AccessCookie, Value: "not-even-a-jwt"})
			}
			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestRouteGate_RefreshCookieAloneIsAnonymous(t *testing.T) {
	gate := RouteGate(DefaultGateConfig())(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req.AddCookie(&http.Cookie{Name: tokenstore.RefreshCookie, Value: "refresh-1"})
	rec := httptest.NewRecorder()

	gate.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(context.Background(), 1, 2, time.Hour, time.Hour)
	defer rl.Shutdown()
	h := rl.Middleware()(okHandler())

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":51234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"), "limits are per IP")
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(context.Background(), 1, 1, time.Hour, time.Minute)
	defer rl.Shutdown()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	rl.limiterFor("10.0.0.1")

	clock = clock.Add(2 * time.Minute)
	rl.limiterFor("10.0.0.2")
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4321"
	assert.Equal(t, "192.0.2.10", clientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", clientIP(req))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("production", "info", &buf)
	t.Cleanup(func() { logger.InitWithWriter("production", "disabled", &bytes.Buffer{}) })

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"}).SignedString([]byte("k"))
	require.NoError(t, err)

	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, logger.WithContext(r.Context()))
		w.WriteHeader(http.StatusNotFound)
	}))
	req := httptest.NewRequest(http.MethodGet, "/products/missing?x=1", nil)
	req.AddCookie(&http.Cookie{Name: tokenstore.AccessCookie, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/products/missing", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "7", entry["user_id"])
	assert.Equal(t, rec.Header().Get("X-Request-ID"), entry["request_id"])
}
