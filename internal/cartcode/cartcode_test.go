package cartcode

import (
	"errors"
	"path/filepath"
	"testing"

	"emart-storefront/internal/infrastructure/localstate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openKV(t *testing.T, path string) *localstate.FileStore {
	t.Helper()
	kv, err := localstate.Open(path)
	require.NoError(t, err)
	return kv
}

func TestGetIsLazyAndStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	p := NewProvider(openKV(t, path))

	peek, err := p.Peek()
	require.NoError(t, err)
	assert.Empty(t, peek, "nothing is generated before first use")

	first, err := p.Get()
	require.NoError(t, err)
	assert.Len(t, first, 32)

	for i := 0; i < 5; i++ {
		again, err := p.Get()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// A new provider over the same storage sees the same identifier.
	other := NewProvider(openKV(t, path))
	got, err := other.Get()
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestClearAllowsNewIdentifier(t *testing.T) {
	p := NewProvider(openKV(t, filepath.Join(t.TempDir(), "state.json")))

	first, err := p.Get()
	require.NoError(t, err)
	require.NoError(t, p.Clear())

	peek, err := p.Peek()
	require.NoError(t, err)
	assert.Empty(t, peek)

	second, err := p.Get()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGenerationFailureSurfaces(t *testing.T) {
	p := NewProvider(openKV(t, filepath.Join(t.TempDir(), "state.json")))
	p.generate = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := p.Get()
	assert.ErrorContains(t, err, "entropy exhausted")

	peek, err := p.Peek()
	require.NoError(t, err)
	assert.Empty(t, peek)
}
