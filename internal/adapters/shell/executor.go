// Package shell implements the build-hook runner: plain os/exec
// execution of a plugin's declared build argv, streaming output onto
// the progress bus line by line.
package shell

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildExecutor = (*Executor)(nil)

// softKillDeadline is the grace period a running build hook gets
// between SIGTERM and SIGKILL.
const softKillDeadline = 5 * time.Second

// Executor implements ports.BuildExecutor using os/exec.
type Executor struct{}

// New creates an Executor.
func New() *Executor {
	return &Executor{}
}

// Run executes argv with cwd as the working directory, streaming
// stdout/stderr onto vertex line by line. A non-zero exit maps to
// domain.ErrBuildFailed.
func (Executor) Run(ctx context.Context, argv []string, cwd string, vertex ports.Vertex) error {
	if len(argv) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cwd
	cmd.Env = os.Environ()
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = softKillDeadline

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return zerr.Wrap(err, "attach stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return zerr.Wrap(err, "attach stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		return zerr.With(zerr.Wrap(err, "start build hook"), "argv", argv)
	}

	done := make(chan struct{}, 2)
	go streamLines(stdout, vertex.Stdout(), done)
	go streamLines(stderr, vertex.Stderr(), done)
	<-done
	<-done

	if err := cmd.Wait(); err != nil {
		vertex.Log(domain.LogLevelError, "build hook exited non-zero")
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrBuildFailed, "build hook failed"), "argv", argv), "cause", err.Error())
	}
	return nil
}

func streamLines(r io.Reader, w io.Writer, done chan struct{}) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		_, _ = w.Write(append(scanner.Bytes(), '\n'))
	}
	done <- struct{}{}
}
