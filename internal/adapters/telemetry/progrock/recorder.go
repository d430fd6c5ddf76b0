// Package progrock implements the progress-bus adapter (ports.Telemetry)
// on top of github.com/vito/progrock.
package progrock

import (
	"context"
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
)

// Recorder implements ports.Telemetry using a progrock.Recorder.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder writing to the default terminal tape.
func New() ports.Telemetry {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder writing to an arbitrary progrock.Writer,
// letting tests substitute an in-memory writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{w: w, rec: progrock.NewRecorder(w)}
}

// Record opens a new vertex named for a plugin id or merge-group name.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	d := digest.FromString(name)
	v := r.rec.Vertex(d, name)
	return ctx, &Vertex{name: name, vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	name   string
	vertex *progrock.VertexRecorder
}

// Write satisfies io.Writer by forwarding to the vertex's stdout stream.
func (v *Vertex) Write(p []byte) (int, error) {
	return v.vertex.Stdout().Write(p)
}

// Stdout returns a writer to capture standard output.
func (v *Vertex) Stdout() io.Writer { return v.vertex.Stdout() }

// Stderr returns a writer to capture error output.
func (v *Vertex) Stderr() io.Writer { return v.vertex.Stderr() }

// Stage reports a stage transition.
func (v *Vertex) Stage(stage domain.Stage, message string) {
	if message == "" {
		_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s\n", v.name, stage)
		return
	}
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s: %s\n", v.name, stage, message)
}

// Log records a structured log line.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s\n", level, msg)
}

// Complete marks the vertex as finished.
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}

// Cached marks the vertex as a cache hit.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}
