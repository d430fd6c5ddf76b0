package cas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/adapters/cas"
)

func TestStore_HasFollowsMarkDone(t *testing.T) {
	root := t.TempDir()
	store := cas.NewStore(root)

	has, err := store.Has("abc123")
	require.NoError(t, err)
	assert.False(t, has)

	dir, err := store.Dir("abc123")
	require.NoError(t, err)
	assert.DirExists(t, dir)

	require.NoError(t, store.MarkDone("abc123"))

	has, err = store.Has("abc123")
	require.NoError(t, err)
	assert.True(t, has)
}
