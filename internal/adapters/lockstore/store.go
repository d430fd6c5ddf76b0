// Package lockstore implements loading and atomically saving the JSON
// lockfile.
package lockstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LockStore = (*Store)(nil)

// Store implements ports.LockStore over a flat JSON file.
type Store struct{}

// New creates a Store.
func New() *Store {
	return &Store{}
}

type wireLockfile struct {
	Version int                         `json:"version"`
	Entries map[string]domain.LockEntry `json:"entries"`
}

// Load reads the lockfile at path. A missing file is not an error; it
// yields a fresh, empty lockfile.
func (Store) Load(path string) (*domain.Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewLockfile(), nil
		}
		return nil, zerr.With(zerr.Wrap(err, "read lockfile"), "path", path)
	}

	var wire wireLockfile
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "parse lockfile"), "path", path)
	}

	lf := &domain.Lockfile{Version: wire.Version, Entries: wire.Entries}
	for id, entry := range lf.Entries {
		entry.ID = id
		lf.Entries[id] = entry
	}
	return lf, nil
}

// Save atomically replaces the lockfile at path: entries are written
// sorted by id (encoding/json sorts map[string] keys), terminated by a
// trailing newline, via a temp-file-then-rename swap.
func (Store) Save(path string, lf *domain.Lockfile) error {
	wire := wireLockfile{Version: lf.Version, Entries: lf.Entries}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "marshal lockfile")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "create lockfile directory"), "dir", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "create temp lockfile")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return zerr.Wrap(err, "write temp lockfile")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return zerr.Wrap(err, "close temp lockfile")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "rename lockfile into place"), "path", path)
	}
	return nil
}
