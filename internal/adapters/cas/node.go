package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.rsplug.dev/rsplug/internal/core/ports"
	gitadapter "go.rsplug.dev/rsplug/internal/adapters/git"
)

// NodeID is the graft node identifier for the build cache adapter.
const NodeID graft.ID = "adapter.cas"

func init() {
	graft.Register(graft.Node[ports.BuildCache]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildCache, error) {
			return NewStore(cacheRootFromEnv()), nil
		},
	})
}

// cacheRootFromEnv mirrors the git adapter's cache root resolution so
// both adapters agree on <cache_root> without a shared config port.
func cacheRootFromEnv() string {
	return gitadapter.ResolveCacheRoot()
}
