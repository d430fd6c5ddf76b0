package assemble

import (
	"context"

	"github.com/grindlemire/graft"
	"go.rsplug.dev/rsplug/internal/adapters/fs"
	"go.rsplug.dev/rsplug/internal/core/ports"
)

// NodeID is the graft node identifier for the output assembler.
const NodeID graft.ID = "engine.assemble"

func init() {
	graft.Register(graft.Node[*Assembler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeIDVerifier},
		Run: func(ctx context.Context) (*Assembler, error) {
			verifier, err := graft.Dep[ports.OutputVerifier](ctx)
			if err != nil {
				return nil, err
			}
			return New(verifier), nil
		},
	})
}
