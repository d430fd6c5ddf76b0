// Package app implements the orchestrator: the phase sequencing that
// drives every other component from a set of configuration paths to a
// written pack tree and lockfile (config → DAG → repo/build → merge →
// assemble → script → lockfile).
package app

import (
	"context"
	"os"
	"path/filepath"

	"go.rsplug.dev/rsplug/internal/adapters/advisorylock"
	"go.rsplug.dev/rsplug/internal/assemble"
	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.rsplug.dev/rsplug/internal/engine/scheduler"
	"go.rsplug.dev/rsplug/internal/merge"
	"go.rsplug.dev/rsplug/internal/scriptgen"
	"go.trai.ch/zerr"
)

// Options carries the CLI-level choices that govern one run.
type Options struct {
	ConfigPaths  []string
	Install      bool
	Update       bool
	Locked       bool
	LockfilePath string
	OutRoot      string
}

// App wires every component behind one Run call.
type App struct {
	loader    ports.ConfigLoader
	locks     ports.LockStore
	repos     ports.RepoCache
	hasher    ports.Hasher
	builds    ports.BuildCache
	executor  ports.BuildExecutor
	verifier  ports.OutputVerifier
	telemetry ports.Telemetry
	logger    ports.Logger
	cacheRoot string
}

// New creates an App from its fully-resolved adapter set.
func New(
	loader ports.ConfigLoader,
	locks ports.LockStore,
	repos ports.RepoCache,
	hasher ports.Hasher,
	builds ports.BuildCache,
	executor ports.BuildExecutor,
	verifier ports.OutputVerifier,
	telemetry ports.Telemetry,
	logger ports.Logger,
	cacheRoot string,
) *App {
	return &App{
		loader:    loader,
		locks:     locks,
		repos:     repos,
		hasher:    hasher,
		builds:    builds,
		executor:  executor,
		verifier:  verifier,
		telemetry: telemetry,
		logger:    logger,
		cacheRoot: cacheRoot,
	}
}

// Run executes the full phase sequence. It acquires the cache root's
// advisory lock for the duration of the run, since the engine is
// explicitly single-instance per cache root, and releases it on every
// exit path.
func (a *App) Run(ctx context.Context, opts Options) error {
	lock, err := advisorylock.Acquire(a.cacheRoot)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil {
			a.logger.Warn("failed to release advisory lock", "error", rerr)
		}
	}()

	specs, err := a.loader.Load(opts.ConfigPaths)
	if err != nil {
		return zerr.Wrap(err, "load configuration")
	}

	graph, err := domain.BuildGraph(specs)
	if err != nil {
		return zerr.Wrap(err, "build plugin dependency graph")
	}

	lockfilePath := opts.LockfilePath
	if lockfilePath == "" {
		lockfilePath = filepath.Join(a.cacheRoot, "rsplug.lock.json")
	}
	outRoot := opts.OutRoot
	if outRoot == "" {
		outRoot = filepath.Join(a.cacheRoot, "pack")
	}
	lockfile, err := a.locks.Load(lockfilePath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "load lockfile"), "path", lockfilePath)
	}
	if opts.Locked {
		if err := requireLockEntries(graph, lockfile); err != nil {
			return err
		}
	}

	mode := ports.SyncMode{Install: opts.Install, Update: opts.Update, Locked: opts.Locked}
	sched := scheduler.New(graph, lockfile, mode, scheduler.Deps{
		Repos:     a.repos,
		Hasher:    a.hasher,
		Builds:    a.builds,
		Executor:  a.executor,
		Telemetry: a.telemetry,
	})

	results, runErr := sched.Run(ctx, scheduler.Parallelism())
	if ctx.Err() != nil {
		return a.cancelCleanup(outRoot, ctx.Err())
	}

	dirs := checkoutDirsOf(results)
	updateLockfile(lockfile, graph, results)

	if runErr != nil {
		// Persist whatever succeeded before reporting the failure: only
		// an interrupt forbids the lockfile write and output swap, not
		// an ordinary repo/build failure.
		if saveErr := a.locks.Save(lockfilePath, lockfile); saveErr != nil {
			a.logger.Warn("failed to persist lockfile after task failures", "error", saveErr)
		}
		return runErr
	}

	plan, err := merge.Plan(graph, dirs)
	if err != nil {
		return zerr.Wrap(err, "plan merge groups")
	}

	asm := assemble.New(a.verifier)
	ctx2, vertex := a.telemetry.Record(ctx, "assemble")
	if err := asm.Assemble(ctx2, outRoot, graph, plan, dirs, vertex); err != nil {
		vertex.Complete(err)
		return err
	}
	vertex.Complete(nil)

	bundle := scriptgen.Build(graph, plan)
	if err := scriptgen.Write(outRoot, bundle); err != nil {
		return zerr.Wrap(err, "write runtime script")
	}

	if err := a.locks.Save(lockfilePath, lockfile); err != nil {
		return zerr.With(zerr.Wrap(err, "save lockfile"), "path", lockfilePath)
	}

	return nil
}

// requireLockEntries enforces --locked's precondition: every
// non-config-only plugin must already have a lockfile entry.
func requireLockEntries(graph *domain.Graph, lockfile *domain.Lockfile) error {
	for spec := range graph.Walk() {
		if spec.ConfigOnly {
			continue
		}
		if _, ok := lockfile.Get(spec.ID); !ok {
			return zerr.With(zerr.Wrap(domain.ErrLockMissing, "locked mode requires a lockfile entry"), "id", spec.ID)
		}
	}
	return nil
}

func checkoutDirsOf(results map[string]scheduler.Result) merge.CheckoutDirs {
	dirs := make(merge.CheckoutDirs, len(results))
	for id, r := range results {
		if r.CheckoutDir != "" {
			dirs[id] = r.CheckoutDir
		}
	}
	return dirs
}

// updateLockfile patches every successfully-synced plugin's resolved
// revision into lockfile, leaving skipped/failed plugins' prior entries
// untouched.
func updateLockfile(lockfile *domain.Lockfile, graph *domain.Graph, results map[string]scheduler.Result) {
	for id, r := range results {
		if r.Status != domain.StatusCompleted && r.Status != domain.StatusCached {
			continue
		}
		spec, ok := graph.Get(id)
		if !ok || spec.ConfigOnly {
			continue
		}
		lockfile.Put(id, domain.LockEntry{
			Repo:        spec.Repo.String(),
			Type:        r.Sync.RefType,
			Rev:         r.Sync.ResolvedSHA,
			ResolvedRef: r.Sync.ResolvedName,
		})
	}
}

// cancelCleanup implements interrupt policy: remove any
// in-progress ".next" output tree and return without having written the
// lockfile or swapped the output tree.
func (a *App) cancelCleanup(outRoot string, cause error) error {
	next := outRoot + ".next"
	if err := os.RemoveAll(next); err != nil {
		a.logger.Warn("failed to remove in-progress output tree on cancellation", "path", next, "error", err)
	}
	return zerr.With(zerr.Wrap(domain.ErrInterrupted, "run interrupted"), "cause", cause.Error())
}
