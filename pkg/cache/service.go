package cache

import "time"

// CacheService is a TTL key/value cache shared by the token store and the
// catalog service.
type CacheService interface {
	// Get returns the value and true when key is present and unexpired.
	Get(key string) (interface{}, bool)

	// GetWithExpiration also reports when the entry expires (zero time for
	// entries without expiry).
	GetWithExpiration(key string) (interface{}, time.Time, bool)

	// Set stores value for duration. A zero duration uses the cache default.
	Set(key string, value interface{}, duration time.Duration)

	Delete(key string)

	// Flush removes all items
	Flush()
}
