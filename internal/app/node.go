package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.rsplug.dev/rsplug/internal/adapters/cas"
	"go.rsplug.dev/rsplug/internal/adapters/config"
	"go.rsplug.dev/rsplug/internal/adapters/fs"
	gitadapter "go.rsplug.dev/rsplug/internal/adapters/git"
	"go.rsplug.dev/rsplug/internal/adapters/lockstore"
	"go.rsplug.dev/rsplug/internal/adapters/logger"
	"go.rsplug.dev/rsplug/internal/adapters/shell"
	"go.rsplug.dev/rsplug/internal/adapters/telemetry/progrock"
	"go.rsplug.dev/rsplug/internal/core/ports"
)

// NodeID and ComponentsNodeID are the graft node identifiers for the
// orchestrator and its exported component bundle.
const (
	NodeID           graft.ID = "app.main"
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			lockstore.NodeID,
			gitadapter.NodeID,
			fs.NodeIDHasher,
			cas.NodeID,
			shell.NodeID,
			fs.NodeIDVerifier,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	locks, err := graft.Dep[ports.LockStore](ctx)
	if err != nil {
		return nil, err
	}
	repos, err := graft.Dep[ports.RepoCache](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	builds, err := graft.Dep[ports.BuildCache](ctx)
	if err != nil {
		return nil, err
	}
	executor, err := graft.Dep[ports.BuildExecutor](ctx)
	if err != nil {
		return nil, err
	}
	verifier, err := graft.Dep[ports.OutputVerifier](ctx)
	if err != nil {
		return nil, err
	}
	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, locks, repos, hasher, builds, executor, verifier, telemetry, log, gitadapter.ResolveCacheRoot()), nil
}
