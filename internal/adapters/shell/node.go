package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.rsplug.dev/rsplug/internal/core/ports"
)

// NodeID is the graft node identifier for the build executor adapter.
const NodeID graft.ID = "adapter.shell"

func init() {
	graft.Register(graft.Node[ports.BuildExecutor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildExecutor, error) {
			return New(), nil
		},
	})
}
