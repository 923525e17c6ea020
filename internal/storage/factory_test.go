package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore(" Memory ", "")
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, CloseIfSupported(store))
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	require.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestDefaultStoreKindIsConstructible(t *testing.T) {
	store, err := NewStore(DefaultStoreKind(), filepath.Join(t.TempDir(), "agentprog.db"))
	require.NoError(t, err)
	assert.NoError(t, CloseIfSupported(store))
}
