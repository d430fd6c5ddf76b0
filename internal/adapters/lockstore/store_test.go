package lockstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/adapters/lockstore"
	"go.rsplug.dev/rsplug/internal/core/domain"
)

func TestStore_LoadMissingFileReturnsEmptyLockfile(t *testing.T) {
	store := lockstore.New()
	lf, err := store.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, lf.Version)
	assert.Empty(t, lf.Entries)
}

func TestStore_SaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsplug-lock.json")
	store := lockstore.New()

	lf := domain.NewLockfile()
	lf.Put("telescope", domain.LockEntry{Repo: "nvim-telescope/telescope.nvim", Type: "tag", Rev: "deadbeef"})
	lf.Put("lspconfig", domain.LockEntry{Repo: "neovim/nvim-lspconfig", Type: "commit", Rev: "cafebabe"})

	require.NoError(t, store.Save(path, lf))

	got, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)

	entry, ok := got.Get("telescope")
	require.True(t, ok)
	assert.Equal(t, "telescope", entry.ID)
	assert.Equal(t, "deadbeef", entry.Rev)
}
