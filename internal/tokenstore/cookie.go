package tokenstore

import (
	"net/http"
	"sync"
	"time"

	"emart-storefront/internal/domain"
)

// CookieStore is the edge-readable backend: it reads tokens from the
// request's cookies and writes Set-Cookie headers on the response. Writes
// made during the request are visible to later Gets on the same store.
type CookieStore struct {
	r   *http.Request
	w   http.ResponseWriter
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	pending map[string]string
}

// NewCookieStore wraps a request/response pair. w may be nil for a
// read-only view, in which case writes are ignored.
func NewCookieStore(r *http.Request, w http.ResponseWriter, ttl time.Duration) *CookieStore {
	return &CookieStore{
		r:       r,
		w:       w,
		ttl:     ttlOrDefault(ttl),
		now:     time.Now,
		pending: map[string]string{},
	}
}

func (s *CookieStore) Get() (domain.Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := domain.Credentials{
		Access:  s.value(AccessCookie),
		Refresh: s.value(RefreshCookie),
	}
	return creds, creds.Access != "" || creds.Refresh != ""
}

func (s *CookieStore) Set(creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.write(AccessCookie, creds.Access)
	s.write(RefreshCookie, creds.Refresh)
	return nil
}

func (s *CookieStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	refresh := s.value(RefreshCookie)
	s.write(AccessCookie, access)
	s.write(RefreshCookie, refresh)
	return nil
}

func (s *CookieStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.write(AccessCookie, "")
	s.write(RefreshCookie, "")
	return nil
}

func (s *CookieStore) value(name string) string {
	if v, ok := s.pending[name]; ok {
		return v
	}
	if s.r == nil {
		return ""
	}
	c, err := s.r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *CookieStore) write(name, value string) {
	s.pending[name] = value
	if s.w == nil {
		return
	}

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.Expires = time.Unix(0, 0).UTC()
		c.MaxAge = -1
	} else {
		c.Expires = s.now().Add(s.ttl).UTC()
	}
	http.SetCookie(s.w, c)
}
