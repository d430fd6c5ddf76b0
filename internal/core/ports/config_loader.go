package ports

import "go.rsplug.dev/rsplug/internal/core/domain"

// ConfigLoader parses configuration documents into a flat,
// normalized list of PluginSpecs.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and concatenates the given document paths, in order,
	// and returns the normalized, validated plugin list.
	Load(paths []string) ([]domain.PluginSpec, error)
}
