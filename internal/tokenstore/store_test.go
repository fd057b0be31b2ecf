package tokenstore

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"emart-storefront/internal/domain"
	"emart-storefront/internal/infrastructure/cache"
	"emart-storefront/internal/infrastructure/localstate"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	kv, err := localstate.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return map[string]Store{
		"memory": NewMemoryStore(cache.NewMemoryCache(time.Hour, 0), DefaultTTL),
		"file":   NewFileStore(kv, DefaultTTL),
		"cookie": NewCookieStore(req, httptest.NewRecorder(), DefaultTTL),
	}
}

func TestStoreContract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := s.Get()
			assert.False(t, ok)
			assert.False(t, HasAccess(s))

			// Clear with nothing stored is safe, twice.
			require.NoError(t, s.Clear())
			require.NoError(t, s.Clear())

			require.NoError(t, s.Set(domain.Credentials{Access: "a1", Refresh: "r1"}))
			creds, ok := s.Get()
			require.True(t, ok)
			assert.Equal(t, domain.Credentials{Access: "a1", Refresh: "r1"}, creds)
			assert.True(t, HasAccess(s))

			require.NoError(t, s.SetAccess("a2"))
			creds, _ = s.Get()
			assert.Equal(t, domain.Credentials{Access: "a2", Refresh: "r1"}, creds)

			require.NoError(t, s.Clear())
			_, ok = s.Get()
			assert.False(t, ok)
			require.NoError(t, s.Clear())
		})
	}
}

func TestFileStoreExpirySlidesOnWrite(t *testing.T) {
	kv, err := localstate.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewFileStore(kv, 7*24*time.Hour)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(domain.Credentials{Access: "a", Refresh: "r"}))

	now = now.Add(6 * 24 * time.Hour)
	require.NoError(t, s.SetAccess("a2"))

	// Past the first window, inside the second.
	now = now.Add(3 * 24 * time.Hour)
	creds, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, "a2", creds.Access)
	assert.Equal(t, "r", creds.Refresh)

	now = now.Add(5 * 24 * time.Hour)
	_, ok = s.Get()
	assert.False(t, ok, "tokens expire 7 days after the last write")
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	kv, err := localstate.Open(path)
	require.NoError(t, err)
	require.NoError(t, NewFileStore(kv, 0).Set(domain.Credentials{Access: "a", Refresh: "r"}))

	kv2, err := localstate.Open(path)
	require.NoError(t, err)
	creds, ok := NewFileStore(kv2, 0).Get()
	require.True(t, ok)
	assert.Equal(t, "a", creds.Access)
}

func TestCookieStoreWritesCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	s := NewCookieStore(httptest.NewRequest(http.MethodGet, "/", nil), rec, 7*24*time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(domain.Credentials{Access: "acc", Refresh: "ref"}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}
	access := byName[AccessCookie]
	require.NotNil(t, access)
	assert.Equal(t, "acc", access.Value)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.True(t, access.Expires.Equal(now.Add(7*24*time.Hour)))
	assert.Equal(t, "ref", byName[RefreshCookie].Value)
}

func TestCookieStoreReadsRequestAndClears(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "acc"})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "ref"})
	rec := httptest.NewRecorder()

	s := NewCookieStore(req, rec, 0)
	creds, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, "acc", creds.Access)

	require.NoError(t, s.Clear())
	_, ok = s.Get()
	assert.False(t, ok)

	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.True(t, c.MaxAge < 0, "cleared cookie %s must expire", c.Name)
	}
}

func TestCookieStoreReadOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "acc"})

	s := NewCookieStore(req, nil, 0)
	assert.True(t, HasAccess(s))
	assert.NoError(t, s.Clear())
}

func TestAccessExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, err := AccessExpiry(token)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))

	_, err = AccessExpiry("")
	assert.ErrorIs(t, err, domain.ErrNoCredentials)

	_, err = AccessExpiry("opaque-token")
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.Equal(t, "42", Subject(token))
	assert.Empty(t, Subject(""))
	assert.Empty(t, Subject("opaque-token"))
}
