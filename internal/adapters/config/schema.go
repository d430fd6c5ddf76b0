// Package config parses declarative configuration
// documents into normalized domain.PluginSpec values.
package config

import "gopkg.in/yaml.v3"

// Document is the top-level shape of one configuration file.
type Document struct {
	Plugins []PluginDTO `yaml:"plugins"`
}

// PluginDTO is the wire shape of one plugin declaration, before
// normalization. Every field recognized by the schema is listed here;
// Loading rejects anything else with ErrConfigSchema (yaml.v3's KnownFields
// strict decoding enforces this).
type PluginDTO struct {
	Repo    string `yaml:"repo"`
	Name    string `yaml:"name"`
	Start   bool   `yaml:"start"`

	OnEvent OneOrMany `yaml:"on_event"`
	OnCmd   OneOrMany `yaml:"on_cmd"`
	OnFT    OneOrMany `yaml:"on_ft"`
	OnMap   OnMapDTO  `yaml:"on_map"`

	With []string `yaml:"with"`

	LuaBefore string `yaml:"lua_before"`
	LuaAfter  string `yaml:"lua_after"`
	LuaStart  string `yaml:"lua_start"`

	Build []string `yaml:"build"`
	Sym   bool      `yaml:"sym"`

	Ignore []string `yaml:"ignore"`

	ConfigOnly bool `yaml:"config_only"`
}

// OneOrMany decodes either a bare scalar or a YAML sequence into a
// []string, for the on_event/on_cmd/on_ft fields, which accept either
// form.
type OneOrMany []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *OneOrMany) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*o = []string{s}
		return nil
	case yaml.SequenceNode:
		var s []string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*o = s
		return nil
	case 0:
		*o = nil
		return nil
	default:
		return &yaml.TypeError{Errors: []string{"on_event/on_cmd/on_ft must be a string or list of strings"}}
	}
}

// OnMapDTO decodes on_map's three surface shapes:
//   - a bare string: one key pattern bound in normal mode
//   - a mapping from mode letters to a string or list of strings
//
// A mode key may itself be multiple letters, each letter naming a mode
// the same pattern is bound in (e.g. "nv" binds normal and visual mode).
type OnMapDTO struct {
	// byModeLetters preserves the parsed mapping and bare the patterns
	// given without mode keys, for normalizeOnMap to expand.
	byModeLetters map[string]OneOrMany
	bare          []string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *OnMapDTO) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		return nil
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		o.bare = []string{s}
		return nil
	case yaml.SequenceNode:
		var s []string
		if err := value.Decode(&s); err != nil {
			return err
		}
		o.bare = s
		return nil
	case yaml.MappingNode:
		var m map[string]OneOrMany
		if err := value.Decode(&m); err != nil {
			return err
		}
		o.byModeLetters = m
		return nil
	default:
		return &yaml.TypeError{Errors: []string{"on_map must be a string, list, or mode mapping"}}
	}
}
