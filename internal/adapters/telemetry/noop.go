// Package telemetry holds lightweight, dependency-free implementations
// of ports.Telemetry used by tests and callers that don't need a real
// progress bus.
package telemetry

import (
	"context"
	"io"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
)

// NoOp is a ports.Telemetry that discards everything.
type NoOp struct{}

// New returns a no-op Telemetry.
func New() ports.Telemetry { return NoOp{} }

// Record returns ctx unchanged and a vertex that discards all writes.
func (NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

// Close does nothing.
func (NoOp) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Write(p []byte) (int, error)             { return len(p), nil }
func (noopVertex) Stdout() io.Writer                       { return io.Discard }
func (noopVertex) Stderr() io.Writer                       { return io.Discard }
func (noopVertex) Stage(domain.Stage, string)              {}
func (noopVertex) Log(domain.LogLevel, string)             {}
func (noopVertex) Complete(error)                          {}
func (noopVertex) Cached()                                 {}
