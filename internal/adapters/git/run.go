// Package git implements repo cache reconciliation via shallow Git
// operations shelled out to the system git binary.
package git

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// softKillDeadline is the grace period a running subprocess gets
// between SIGTERM and SIGKILL.
const softKillDeadline = 5 * time.Second

// run executes a git subcommand in dir, streaming combined output to
// vertex while also capturing it for error classification.
func run(ctx context.Context, dir string, vertex ports.Vertex, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = softKillDeadline

	var buf bytes.Buffer
	if vertex != nil {
		cmd.Stdout = &multiWriter{a: vertex.Stdout(), b: &buf}
		cmd.Stderr = &multiWriter{a: vertex.Stderr(), b: &buf}
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	err := cmd.Run()
	out := buf.String()
	if err != nil {
		return out, classifyError(err, out)
	}
	return out, nil
}

type multiWriter struct {
	a, b io.Writer
}

func (m *multiWriter) Write(p []byte) (int, error) {
	_, _ = m.a.Write(p)
	return m.b.Write(p)
}

// classifyError maps a failed git invocation to a sentinel: not-found
// and auth errors are terminal, everything else is retried as
// transient.
func classifyError(err error, output string) error {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "repository not found"),
		strings.Contains(lower, "could not find remote"),
		strings.Contains(lower, "does not exist"),
		strings.Contains(lower, "couldn't find remote ref"):
		return zerr.With(zerr.Wrap(domain.ErrRepoNotFound, "git command failed"), "output", output)
	case strings.Contains(lower, "authentication failed"),
		strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "could not read username"):
		return zerr.With(zerr.Wrap(domain.ErrRepoAuth, "git command failed"), "output", output)
	default:
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrRepoTransient, "git command failed"), "output", output), "cause", err.Error())
	}
}
