// Package tokenstore persists the access/refresh credential pair. All
// backends share one contract: every write opens a fresh expiry window
// (7 days by default) for the tokens it writes, and Clear is idempotent.
package tokenstore

import (
	"errors"
	"time"

	"emart-storefront/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Cookie names shared by the script-side store and the edge middleware.
const (
	AccessCookie  = "auth_token"
	RefreshCookie = "refresh_token"
)

const DefaultTTL = 7 * 24 * time.Hour

type Store interface {
	// Get returns the unexpired credentials; ok is false when neither
	// token is present.
	Get() (creds domain.Credentials, ok bool)
	// Set writes both tokens.
	Set(creds domain.Credentials) error
	// SetAccess replaces the access token after a refresh, rewriting the
	// stored refresh token so both windows slide together.
	SetAccess(access string) error
	// Clear removes both tokens. Safe with nothing stored.
	Clear() error
}

// HasAccess reports whether s currently holds an access token.
func HasAccess(s Store) bool {
	creds, ok := s.Get()
	return ok && creds.Access != ""
}

// AccessExpiry reads the exp claim of a JWT access token without
// verifying its signature. It is informational only.
func AccessExpiry(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, domain.ErrNoCredentials
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return exp.Time, nil
}

// Subject reads the sub claim of an unverified JWT, or "" when absent.
func Subject(token string) string {
	if token == "" {
		return ""
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	sub, _ := parsed.Claims.GetSubject()
	return sub
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
