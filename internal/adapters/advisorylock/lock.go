// Package advisorylock implements the single-instance-per-cache-root
// guard: an advisory filesystem lock on
// <cache_root>/.lock, held for the duration of a run.
package advisorylock

import (
	"os"
	"path/filepath"
	"syscall"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.trai.ch/zerr"
)

// Lock holds an advisory flock on <cache_root>/.lock.
type Lock struct {
	f *os.File
}

// Acquire opens (creating if needed) <cacheRoot>/.lock and takes a
// non-blocking exclusive advisory lock on it. It returns
// domain.ErrConcurrentRun if another run already holds it.
func Acquire(cacheRoot string) (*Lock, error) {
	if err := os.MkdirAll(cacheRoot, 0o755); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "create cache root"), "dir", cacheRoot)
	}

	path := filepath.Join(cacheRoot, ".lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "open lock file"), "path", path)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if err == syscall.EWOULDBLOCK {
			return nil, zerr.With(zerr.Wrap(domain.ErrConcurrentRun, "cache root is locked by another run"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "flock lock file"), "path", path)
	}

	return &Lock{f: f}, nil
}

// Release drops the advisory lock and closes the file. Safe to call on
// every exit path (success, failure, or interrupt).
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	_ = syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	return l.f.Close()
}
