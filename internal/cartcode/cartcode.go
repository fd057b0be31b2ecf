// Package cartcode owns the anonymous cart identifier: an opaque random
// token that addresses a guest cart on the server until login merges it.
package cartcode

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"emart-storefront/internal/infrastructure/localstate"

	"github.com/google/uuid"
)

const storageKey = "cart_code"

type KV interface {
	Get(key string, dst any) error
	Set(key string, value any) error
	Delete(key string) error
}

type Provider struct {
	kv       KV
	generate func() (string, error)

	mu     sync.Mutex
	cached string
}

func NewProvider(kv KV) *Provider {
	return &Provider{kv: kv, generate: newCode}
}

// Get returns the persisted identifier, generating and storing one on
// first use. An existing identifier is never replaced.
func (p *Provider) Get() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	code, err := p.load()
	if err != nil {
		return "", err
	}
	if code != "" {
		return code, nil
	}

	code, err = p.generate()
	if err != nil {
		return "", fmt.Errorf("generate cart code: %w", err)
	}
	if err := p.kv.Set(storageKey, code); err != nil {
		return "", fmt.Errorf("persist cart code: %w", err)
	}
	p.cached = code
	return code, nil
}

// Peek returns the identifier without generating one.
func (p *Provider) Peek() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load()
}

// Clear forgets the identifier; the next Get generates a new one.
func (p *Provider) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cached = ""
	return p.kv.Delete(storageKey)
}

func (p *Provider) load() (string, error) {
	if p.cached != "" {
		return p.cached, nil
	}
	var code string
	err := p.kv.Get(storageKey, &code)
	if errors.Is(err, localstate.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load cart code: %w", err)
	}
	p.cached = code
	return code, nil
}

func newCode() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}
