package localstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStoreRoundTripAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("a", sample{Name: "x", Count: 2}))
	require.NoError(t, s.Set("b", "plain"))

	reopened, err := Open(path)
	require.NoError(t, err)

	var got sample
	require.NoError(t, reopened.Get("a", &got))
	assert.Equal(t, sample{Name: "x", Count: 2}, got)

	var str string
	require.NoError(t, reopened.Get("b", &str))
	assert.Equal(t, "plain", str)
}

func TestFileStoreMissingKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	var v string
	assert.ErrorIs(t, s.Get("nope", &v), ErrNotFound)
	assert.NoError(t, s.Delete("nope"))
}

func TestFileStoreDelete(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	require.NoError(t, s.Set("k", 1))
	require.NoError(t, s.Delete("k"))

	var v int
	assert.ErrorIs(t, s.Get("k", &v), ErrNotFound)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)

	var v int
	assert.Error(t, s.Get("k", &v))
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
