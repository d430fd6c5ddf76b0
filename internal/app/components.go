package app

import "go.rsplug.dev/rsplug/internal/core/ports"

// Components bundles the resolved application for the CLI layer,
// exposing only what cmd/ needs rather than the whole graft graph.
type Components struct {
	App    *App
	Logger ports.Logger
}
