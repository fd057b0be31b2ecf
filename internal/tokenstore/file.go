package tokenstore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"emart-storefront/internal/domain"
	"emart-storefront/internal/infrastructure/localstate"
)

const fileKey = "tokens"

// KV is the subset of localstate.FileStore the file backend relies on.
type KV interface {
	Get(key string, dst any) error
	Set(key string, value any) error
	Delete(key string) error
}

type storedToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

type storedTokens struct {
	Access  *storedToken `json:"access,omitempty"`
	Refresh *storedToken `json:"refresh,omitempty"`
}

// FileStore persists tokens with their expiry stamps in a local state file
// so they survive process restarts.
type FileStore struct {
	kv  KV
	ttl time.Duration
	now func() time.Time
	mu  sync.Mutex
}

func NewFileStore(kv KV, ttl time.Duration) *FileStore {
	return &FileStore{kv: kv, ttl: ttlOrDefault(ttl), now: time.Now}
}

func (s *FileStore) Get() (domain.Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, _ := s.read()
	return creds, creds.Access != "" || creds.Refresh != ""
}

func (s *FileStore) Set(creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(creds)
}

func (s *FileStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return err
	}
	creds.Access = access
	return s.write(creds)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(fileKey); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

func (s *FileStore) read() (domain.Credentials, error) {
	var st storedTokens
	if err := s.kv.Get(fileKey, &st); err != nil {
		if errors.Is(err, localstate.ErrNotFound) {
			return domain.Credentials{}, nil
		}
		return domain.Credentials{}, err
	}
	now := s.now()
	return domain.Credentials{
		Access:  st.Access.live(now),
		Refresh: st.Refresh.live(now),
	}, nil
}

func (s *FileStore) write(creds domain.Credentials) error {
	expires := s.now().Add(s.ttl)
	st := storedTokens{
		Access:  stamp(creds.Access, expires),
		Refresh: stamp(creds.Refresh, expires),
	}
	if st.Access == nil && st.Refresh == nil {
		return s.kv.Delete(fileKey)
	}
	if err := s.kv.Set(fileKey, st); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

func stamp(value string, expires time.Time) *storedToken {
	if value == "" {
		return nil
	}
	return &storedToken{Value: value, ExpiresAt: expires}
}

func (t *storedToken) live(now time.Time) string {
	if t == nil || !now.Before(t.ExpiresAt) {
		return ""
	}
	return t.Value
}
