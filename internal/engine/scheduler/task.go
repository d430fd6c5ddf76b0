package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.rsplug.dev/rsplug/internal/adapters/fs"
	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// runTask executes one plugin's repo-sync, require_modules derivation,
// and build-hook work, in that order.
func (s *Scheduler) runTask(ctx context.Context, id string) Result {
	spec, ok := s.graph.Get(id)
	if !ok {
		return Result{Status: domain.StatusSkipped, Err: zerr.With(zerr.Wrap(domain.ErrSkipped, "plugin not in graph"), "id", id)}
	}

	taskCtx, vertex := s.deps.Telemetry.Record(ctx, id)

	if spec.ConfigOnly {
		vertex.Complete(nil)
		return Result{Status: domain.StatusCompleted}
	}

	var locked *domain.LockEntry
	if s.lock != nil {
		if e, found := s.lock.Get(id); found {
			locked = &e
		}
	}

	sync, err := s.deps.Repos.Sync(taskCtx, spec, s.mode, locked, vertex)
	if err != nil {
		return Result{Status: domain.StatusFailed, Err: err}
	}

	modules, err := deriveRequireModules(sync.Dir)
	if err != nil {
		vertex.Complete(err)
		return Result{Status: domain.StatusFailed, Err: err, Sync: sync, CheckoutDir: sync.Dir}
	}
	spec.Triggers.RequireModules = modules
	s.graph.Set(spec)

	if len(spec.Build) == 0 {
		vertex.Complete(nil)
		return Result{Status: domain.StatusCompleted, Sync: sync, CheckoutDir: sync.Dir}
	}

	cached, err := s.runBuild(taskCtx, spec, sync, vertex)
	if err != nil {
		vertex.Complete(err)
		return Result{Status: domain.StatusFailed, Err: err, Sync: sync, CheckoutDir: sync.Dir}
	}
	if cached {
		vertex.Cached()
		return Result{Status: domain.StatusCached, Sync: sync, CheckoutDir: sync.Dir}
	}
	vertex.Complete(nil)
	return Result{Status: domain.StatusCompleted, Sync: sync, CheckoutDir: sync.Dir}
}

// runBuild hashes the checkout via the H(commit_sha ‖ H(workdir_tree) ‖
// H(argv)) cache key and, on a cache miss, copies it into a scratch
// build workdir and runs the declared argv there. The hash is always
// computed off the plugin's own checkout directory; only a cache miss
// pays for the copy into an isolated build workdir.
func (s *Scheduler) runBuild(ctx context.Context, spec domain.PluginSpec, sync ports.RepoSyncResult, vertex ports.Vertex) (cached bool, err error) {
	vertex.Stage(domain.StageBuild, strings.Join(spec.Build, " "))

	hash, err := s.deps.Hasher.InputHash(sync.ResolvedSHA, sync.Dir, spec.Build)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "compute build input hash"), "id", spec.ID)
	}

	hit, err := s.deps.Builds.Has(hash)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "check build cache"), "id", spec.ID)
	}
	if hit {
		return true, nil
	}

	workdir, err := s.deps.Builds.Dir(hash)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "reserve build workdir"), "id", spec.ID)
	}
	if err := copyTree(sync.Dir, workdir); err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrAssemblyIO, "copy checkout into build workdir"), "id", spec.ID)
	}

	if err := s.deps.Executor.Run(ctx, spec.Build, workdir, vertex); err != nil {
		return false, err
	}

	if err := s.deps.Builds.MarkDone(hash); err != nil {
		return false, zerr.With(zerr.Wrap(err, "mark build cache entry done"), "id", spec.ID)
	}
	return false, nil
}

// deriveRequireModules lists the top-level names under dir/lua:
// directories and *.lua files become the module names the script
// emitter's require-table dispatch watches for.
func deriveRequireModules(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, "lua"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "list lua/ directory"), "dir", dir)
	}

	var modules []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			modules = append(modules, name)
			continue
		}
		if strings.HasSuffix(name, ".lua") {
			modules = append(modules, strings.TrimSuffix(name, ".lua"))
		}
	}
	return modules, nil
}

// copyTree recursively, byte-exactly copies src into dst, skipping .git,
// reusing the deterministic walk order the hasher relies on.
func copyTree(src, dst string) error {
	walker := fs.NewWalker()
	for rel := range walker.WalkFiles(src, nil) {
		srcPath := filepath.Join(src, rel)
		dstPath := filepath.Join(dst, rel)

		info, err := os.Stat(srcPath)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "stat source file"), "path", rel)
		}
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
			return zerr.With(zerr.Wrap(err, "create destination directory"), "path", rel)
		}
		if err := copyFileMode(srcPath, dstPath, info.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func copyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "open source file"), "path", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "create destination file"), "path", dst)
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return zerr.With(zerr.Wrap(err, "copy file content"), "path", dst)
	}
	return nil
}
