package git

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.rsplug.dev/rsplug/internal/core/ports"
)

// NodeID is the graft node identifier for the repo cache adapter.
const NodeID graft.ID = "adapter.git"

func init() {
	graft.Register(graft.Node[ports.RepoCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.RepoCache, error) {
			return New(ResolveCacheRoot()), nil
		},
	})
}

// ResolveCacheRoot resolves the cache directory: RSPLUG_CACHE_DIR if
// set, otherwise the user cache dir under "rsplug". Shared by every
// adapter that needs to agree on <cache_root> without a config port.
func ResolveCacheRoot() string {
	if v := os.Getenv("RSPLUG_CACHE_DIR"); v != "" {
		return v
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "rsplug")
	}
	return filepath.Join(dir, "rsplug")
}
