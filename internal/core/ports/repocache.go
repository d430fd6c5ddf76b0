package ports

import (
	"context"

	"go.rsplug.dev/rsplug/internal/core/domain"
)

// SyncMode governs which actions the repo cache is allowed to take for
// a plugin's cache directory.
type SyncMode struct {
	Install bool
	Update  bool
	Locked  bool
}

// RepoSyncResult is what the repo cache reports back after reconciling one plugin's
// cache directory against its desired ref spec.
type RepoSyncResult struct {
	Dir          string // absolute path to the repo's working tree
	ResolvedSHA  string
	RefType      string // "tag" | "branch" | "commit" | "default"
	ResolvedName string // tag/branch name, if applicable
}

// RepoCache implements on-disk clone directory management with
// shallow clone/fetch/checkout and ref resolution (tags incl. glob,
// branches, commits).
//
//go:generate go run go.uber.org/mock/mockgen -source=repocache.go -destination=mocks/mock_repocache.go -package=mocks
type RepoCache interface {
	// Sync reconciles the plugin's cache directory against mode and, if
	// mode.Locked, the given pinned LockEntry. It reports progress on
	// vertex.
	Sync(ctx context.Context, plugin domain.PluginSpec, mode SyncMode, locked *domain.LockEntry, vertex Vertex) (RepoSyncResult, error)
}
