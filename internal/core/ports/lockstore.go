package ports

import "go.rsplug.dev/rsplug/internal/core/domain"

// LockStore loads and saves the JSON lockfile.
//
//go:generate go run go.uber.org/mock/mockgen -source=lockstore.go -destination=mocks/mock_lockstore.go -package=mocks
type LockStore interface {
	// Load reads the lockfile at path, tolerating a missing file (an
	// empty Lockfile is returned, no error).
	Load(path string) (*domain.Lockfile, error)
	// Save atomically writes lockfile to path.
	Save(path string, lockfile *domain.Lockfile) error
}
