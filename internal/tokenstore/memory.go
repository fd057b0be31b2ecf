package tokenstore

import (
	"sync"
	"time"

	"emart-storefront/internal/domain"
	"emart-storefront/pkg/cache"
)

// MemoryStore keeps tokens in a TTL cache; expiry is enforced by the cache.
type MemoryStore struct {
	cache cache.CacheService
	ttl   time.Duration
	mu    sync.Mutex
}

func NewMemoryStore(c cache.CacheService, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: c, ttl: ttlOrDefault(ttl)}
}

func (s *MemoryStore) Get() (domain.Credentials, bool) {
	var creds domain.Credentials
	if v, ok := s.cache.Get(AccessCookie); ok {
		creds.Access, _ = v.(string)
	}
	if v, ok := s.cache.Get(RefreshCookie); ok {
		creds.Refresh, _ = v.(string)
	}
	return creds, creds.Access != "" || creds.Refresh != ""
}

func (s *MemoryStore) Set(creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(creds)
	return nil
}

func (s *MemoryStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds, _ := s.Get()
	creds.Access = access
	s.write(creds)
	return nil
}

func (s *MemoryStore) Clear() error {
	s.cache.Delete(AccessCookie)
	s.cache.Delete(RefreshCookie)
	return nil
}

func (s *MemoryStore) write(creds domain.Credentials) {
	s.put(AccessCookie, creds.Access)
	s.put(RefreshCookie, creds.Refresh)
}

func (s *MemoryStore) put(key, value string) {
	if value == "" {
		s.cache.Delete(key)
		return
	}
	s.cache.Set(key, value, s.ttl)
}
