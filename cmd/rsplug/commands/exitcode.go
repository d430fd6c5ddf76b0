package commands

import (
	"errors"

	"go.rsplug.dev/rsplug/internal/core/domain"
)

// ExitCode maps err to the process's exit code. zerr sentinels compare
// with errors.Is regardless of how much context was wrapped onto them
// at the failing call site.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch {
	case errors.Is(err, domain.ErrUsage):
		return 2
	case errors.Is(err, domain.ErrConfigSchema),
		errors.Is(err, domain.ErrConfigUnknownDep),
		errors.Is(err, domain.ErrConfigDuplicateID):
		return 3
	case errors.Is(err, domain.ErrConfigCycle),
		errors.Is(err, domain.ErrLockMissing):
		return 4
	case errors.Is(err, domain.ErrRepoNotFound),
		errors.Is(err, domain.ErrRepoAuth),
		errors.Is(err, domain.ErrRepoTransient),
		errors.Is(err, domain.ErrRefUnresolved),
		errors.Is(err, domain.ErrNotInstalled),
		errors.Is(err, domain.ErrCheckoutFailed),
		errors.Is(err, domain.ErrBuildFailed),
		errors.Is(err, domain.ErrSkipped):
		return 5
	case errors.Is(err, domain.ErrConcurrentRun):
		return 6
	case errors.Is(err, domain.ErrAssemblyIO),
		errors.Is(err, domain.ErrHelptagsFailed):
		return 7
	default:
		return 1
	}
}
