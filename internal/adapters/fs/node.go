package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.rsplug.dev/rsplug/internal/core/ports"
)

// NodeIDHasher and NodeIDVerifier are the graft node identifiers for
// the filesystem adapters.
const (
	NodeIDHasher   graft.ID = "adapter.fs.hasher"
	NodeIDVerifier graft.ID = "adapter.fs.verifier"
)

func init() {
	graft.Register(graft.Node[ports.Hasher]{
		ID:        NodeIDHasher,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(NewWalker()), nil
		},
	})

	graft.Register(graft.Node[ports.OutputVerifier]{
		ID:        NodeIDVerifier,
		Cacheable: true,
		Run: func(_ context.Context) (ports.OutputVerifier, error) {
			return NewVerifier(), nil
		},
	})
}
