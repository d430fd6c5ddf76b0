// Package wiring registers every adapter's Graft node by importing it
// for its init() side effect, so cmd/rsplug only needs one import to
// bring the whole composition root to life.
package wiring

import (
	// Register adapter nodes. internal/adapters/advisorylock is not a
	// Graft node: App.Run acquires it directly, scoped to one run.
	_ "go.rsplug.dev/rsplug/internal/adapters/cas"
	_ "go.rsplug.dev/rsplug/internal/adapters/config"
	_ "go.rsplug.dev/rsplug/internal/adapters/fs"
	_ "go.rsplug.dev/rsplug/internal/adapters/git"
	_ "go.rsplug.dev/rsplug/internal/adapters/lockstore"
	_ "go.rsplug.dev/rsplug/internal/adapters/logger"
	_ "go.rsplug.dev/rsplug/internal/adapters/shell"
	_ "go.rsplug.dev/rsplug/internal/adapters/telemetry/progrock"
	// Register app-layer nodes.
	_ "go.rsplug.dev/rsplug/internal/app"
	_ "go.rsplug.dev/rsplug/internal/assemble"
)
