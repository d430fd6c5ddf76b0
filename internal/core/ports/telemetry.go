package ports

import (
	"context"
	"io"

	"go.rsplug.dev/rsplug/internal/core/domain"
)

// Telemetry is the engine-wide progress bus: the scheduler opens one
// Vertex per plugin task, which the repo cache and build executor stream
// stage/progress events onto, and the orchestrator opens one for output
// assembly.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Telemetry interface {
	// Record opens a new vertex named for a plugin id or merge-group
	// name, scoped to ctx.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is one unit of work's progress stream.
type Vertex interface {
	io.Writer
	Stdout() io.Writer
	Stderr() io.Writer
	// Stage reports a stage transition (Resolve, Fetch, Checkout, ...).
	Stage(stage domain.Stage, message string)
	// Log records a structured log line associated with this vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished, successfully or with err.
	Complete(err error)
	// Cached marks the vertex as skipped because of a cache hit.
	Cached()
}
