package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RepoCache = (*Cache)(nil)

// Cache implements the repo cache over a
// <cache_root>/repos/<owner>__<slug> working tree per plugin. The
// hosting forge is pluggable; Host defaults to a single public Git
// service.
type Cache struct {
	CacheRoot string
	Host      string
}

const defaultHost = "https://github.com"

// New creates a Cache rooted at cacheRoot, cloning from Host.
func New(cacheRoot string) *Cache {
	return &Cache{CacheRoot: cacheRoot, Host: defaultHost}
}

func (c *Cache) dir(repo domain.Repo) string {
	return filepath.Join(c.CacheRoot, "repos", repo.CacheDirName())
}

func (c *Cache) url(repo domain.Repo) string {
	return fmt.Sprintf("%s/%s/%s.git", c.Host, repo.Owner, repo.Slug)
}

// Sync reconciles plugin's cache directory against mode's install/
// update/locked table.
func (c *Cache) Sync(ctx context.Context, plugin domain.PluginSpec, mode ports.SyncMode, locked *domain.LockEntry, vertex ports.Vertex) (ports.RepoSyncResult, error) {
	dir := c.dir(plugin.Repo)
	url := c.url(plugin.Repo)
	present := dirExists(dir)

	vertex.Stage(domain.StageResolve, plugin.Repo.String())

	var result ports.RepoSyncResult
	var err error

	switch {
	case mode.Locked:
		if locked == nil {
			return ports.RepoSyncResult{}, zerr.With(zerr.Wrap(domain.ErrLockMissing, "locked mode requires a lockfile entry"), "id", plugin.ID)
		}
		result, err = c.syncLocked(ctx, dir, url, present, *locked, vertex)
	case !present && !mode.Install && !mode.Update:
		return ports.RepoSyncResult{}, zerr.With(zerr.Wrap(domain.ErrNotInstalled, "plugin is not installed and neither -i nor -u was given"), "id", plugin.ID)
	case present && !mode.Update:
		result, err = c.acceptCurrent(ctx, dir, vertex)
	case !present:
		result, err = c.cloneFresh(ctx, dir, url, plugin.RefSpec, vertex)
	default: // present && mode.Update
		result, err = c.fetchAndCheckout(ctx, dir, plugin.RefSpec, vertex)
	}
	if err != nil {
		vertex.Complete(err)
		return ports.RepoSyncResult{}, err
	}

	vertex.Stage(domain.StageCheckout, result.ResolvedSHA)
	vertex.Complete(nil)
	result.Dir = dir
	return result, nil
}

func (c *Cache) syncLocked(ctx context.Context, dir, url string, present bool, locked domain.LockEntry, vertex ports.Vertex) (ports.RepoSyncResult, error) {
	if !present {
		if err := cloneAtCommit(ctx, dir, url, locked.Rev, vertex); err != nil {
			return ports.RepoSyncResult{}, err
		}
	} else {
		if err := withRetry(ctx, func() error {
			_, err := run(ctx, dir, vertex, "fetch", "--depth", "1", "origin", locked.Rev)
			return err
		}); err != nil {
			return ports.RepoSyncResult{}, err
		}
		if _, err := run(ctx, dir, vertex, "checkout", "--detach", "FETCH_HEAD"); err != nil {
			return ports.RepoSyncResult{}, err
		}
	}
	return ports.RepoSyncResult{ResolvedSHA: locked.Rev, RefType: locked.Type, ResolvedName: locked.ResolvedRef}, nil
}

func (c *Cache) acceptCurrent(ctx context.Context, dir string, vertex ports.Vertex) (ports.RepoSyncResult, error) {
	out, err := run(ctx, dir, vertex, "rev-parse", "HEAD")
	if err != nil {
		return ports.RepoSyncResult{}, err
	}
	return ports.RepoSyncResult{ResolvedSHA: strings.TrimSpace(out), RefType: "default"}, nil
}

func (c *Cache) cloneFresh(ctx context.Context, dir, url string, spec domain.RefSpec, vertex ports.Vertex) (ports.RepoSyncResult, error) {
	var ref resolvedRef
	err := withRetry(ctx, func() error {
		var rerr error
		ref, rerr = resolve(ctx, url, spec, vertex)
		return rerr
	})
	if err != nil {
		return ports.RepoSyncResult{}, err
	}

	vertex.Stage(domain.StageFetch, url)
	err = withRetry(ctx, func() error {
		switch {
		case ref.refName != "":
			return cloneAtRef(ctx, dir, url, ref.refName, vertex)
		case spec.Kind == domain.RefDefault:
			return cloneDefault(ctx, dir, url, vertex)
		default:
			return cloneAtCommit(ctx, dir, url, ref.sha, vertex)
		}
	})
	if err != nil {
		return ports.RepoSyncResult{}, err
	}

	return ports.RepoSyncResult{ResolvedSHA: ref.sha, RefType: ref.refType, ResolvedName: ref.refName}, nil
}

func (c *Cache) fetchAndCheckout(ctx context.Context, dir string, spec domain.RefSpec, vertex ports.Vertex) (ports.RepoSyncResult, error) {
	remote, err := run(ctx, dir, vertex, "remote", "get-url", "origin")
	if err != nil {
		return ports.RepoSyncResult{}, err
	}
	url := strings.TrimSpace(remote)

	var ref resolvedRef
	err = withRetry(ctx, func() error {
		var rerr error
		ref, rerr = resolve(ctx, url, spec, vertex)
		return rerr
	})
	if err != nil {
		return ports.RepoSyncResult{}, err
	}

	vertex.Stage(domain.StageFetch, url)
	target := ref.sha
	if ref.refName != "" {
		target = ref.refName
	}
	err = withRetry(ctx, func() error {
		_, rerr := run(ctx, dir, vertex, "fetch", "--depth", "1", "origin", target)
		return rerr
	})
	if err != nil {
		return ports.RepoSyncResult{}, err
	}
	if _, err := run(ctx, dir, vertex, "checkout", "--detach", "FETCH_HEAD"); err != nil {
		return ports.RepoSyncResult{}, err
	}

	return ports.RepoSyncResult{ResolvedSHA: ref.sha, RefType: ref.refType, ResolvedName: ref.refName}, nil
}

func cloneAtRef(ctx context.Context, dir, url, ref string, vertex ports.Vertex) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "create repo cache parent dir"), "dir", dir)
	}
	_, err := run(ctx, "", vertex, "clone", "--depth", "1", "--branch", ref, url, dir)
	return err
}

func cloneDefault(ctx context.Context, dir, url string, vertex ports.Vertex) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "create repo cache parent dir"), "dir", dir)
	}
	_, err := run(ctx, "", vertex, "clone", "--depth", "1", url, dir)
	return err
}

func cloneAtCommit(ctx context.Context, dir, url, sha string, vertex ports.Vertex) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "create repo cache dir"), "dir", dir)
	}
	if _, err := run(ctx, dir, vertex, "init"); err != nil {
		return err
	}
	if _, err := run(ctx, dir, vertex, "remote", "add", "origin", url); err != nil {
		return err
	}
	if _, err := run(ctx, dir, vertex, "fetch", "--depth", "1", "origin", sha); err != nil {
		return err
	}
	_, err := run(ctx, dir, vertex, "checkout", "--detach", "FETCH_HEAD")
	return err
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
