package domain

import "go.trai.ch/zerr"

// Sentinel errors for the exit-code taxonomy. Call sites attach
// structured metadata with zerr.With (plugin id, repo, path, ...) so
// the top-level %+v report names the offending plugin without extra
// plumbing.
var (
	// ErrUsage is returned for malformed CLI invocations.
	ErrUsage = zerr.New("usage error")

	// ErrConfigSchema is returned when a configuration document contains
	// an unrecognized field or violates the PluginSpec schema.
	ErrConfigSchema = zerr.New("config schema error")

	// ErrConfigUnknownDep is returned when a plugin's `with` list names an
	// id that does not resolve to any loaded plugin.
	ErrConfigUnknownDep = zerr.New("unknown dependency")

	// ErrConfigCycle is returned when the `with` graph contains a cycle.
	ErrConfigCycle = zerr.New("dependency cycle")

	// ErrConfigDuplicateID is returned when two plugins normalize to the
	// same id.
	ErrConfigDuplicateID = zerr.New("duplicate plugin id")

	// ErrLockMissing is returned when --locked is in effect and a plugin
	// has no corresponding lockfile entry.
	ErrLockMissing = zerr.New("missing lockfile entry")

	// ErrConcurrentRun is returned when the cache root's advisory lock is
	// already held by another process.
	ErrConcurrentRun = zerr.New("concurrent run detected")

	// ErrRepoNotFound is a terminal error: the remote repository does not
	// exist or is inaccessible.
	ErrRepoNotFound = zerr.New("repository not found")

	// ErrRepoAuth is a terminal error: authentication with the remote
	// failed.
	ErrRepoAuth = zerr.New("repository authentication failed")

	// ErrRepoTransient marks an error class that the repo cache retries.
	ErrRepoTransient = zerr.New("transient repository error")

	// ErrRefUnresolved is returned when a ref spec (tag, tag glob, branch)
	// cannot be resolved against the remote.
	ErrRefUnresolved = zerr.New("ref could not be resolved")

	// ErrNotInstalled is returned in "neither install nor update" mode
	// when a plugin's cache directory does not exist.
	ErrNotInstalled = zerr.New("plugin not installed")

	// ErrCheckoutFailed is returned when a git checkout of a resolved ref
	// fails.
	ErrCheckoutFailed = zerr.New("checkout failed")

	// ErrBuildFailed is returned when a plugin's build hook exits
	// non-zero.
	ErrBuildFailed = zerr.New("build hook failed")

	// ErrAssemblyIO is returned for filesystem failures while assembling
	// the output pack tree.
	ErrAssemblyIO = zerr.New("output assembly I/O error")

	// ErrHelptagsFailed is returned when the helptags index cannot be
	// generated.
	ErrHelptagsFailed = zerr.New("helptags generation failed")

	// ErrInterrupted is returned when the run is aborted by a signal.
	ErrInterrupted = zerr.New("interrupted")

	// ErrSkipped marks a task that was never attempted because one of its
	// predecessors failed.
	ErrSkipped = zerr.New("skipped")
)
