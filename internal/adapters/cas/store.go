// Package cas implements the content-addressed build artifact cache:
// directories of the form <cache_root>/builds/<hash>, marked done by a
// ".ok" sentinel file.
package cas

import (
	"os"
	"path/filepath"

	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildCache = (*Store)(nil)

const okMarker = ".ok"

// Store implements ports.BuildCache over <cache_root>/builds/<hash>/.
type Store struct {
	root string
}

// NewStore creates a Store rooted at <cacheRoot>/builds.
func NewStore(cacheRoot string) *Store {
	return &Store{root: filepath.Join(cacheRoot, "builds")}
}

// Has reports whether the artifact directory for hash exists and is
// marked complete.
func (s *Store) Has(hash string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, hash, okMarker))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "stat build cache marker"), "hash", hash)
	}
	return true, nil
}

// Dir returns the artifact directory for hash, creating it if absent.
func (s *Store) Dir(hash string) (string, error) {
	dir := filepath.Join(s.root, hash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", zerr.With(zerr.Wrap(err, "create build cache directory"), "hash", hash)
	}
	return dir, nil
}

// MarkDone writes the ".ok" marker, short-circuiting future rebuilds
// for this hash.
func (s *Store) MarkDone(hash string) error {
	dir := filepath.Join(s.root, hash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "create build cache directory"), "hash", hash)
	}
	path := filepath.Join(dir, okMarker)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "write build cache marker"), "hash", hash)
	}
	return nil
}
