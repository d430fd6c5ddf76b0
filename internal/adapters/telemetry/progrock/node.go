package progrock

import (
	"context"

	"github.com/grindlemire/graft"
	"go.rsplug.dev/rsplug/internal/core/ports"
)

// NodeID is the graft node identifier for the telemetry adapter.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			return New(), nil
		},
	})
}
