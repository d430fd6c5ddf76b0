package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.rsplug.dev/rsplug/internal/app"
	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.trai.ch/zerr"
)

// configFilesEnv names the fallback colon-separated glob list used when
// no config_patterns positional args are given.
const configFilesEnv = "RSPLUG_CONFIG_FILES"

// runSync implements the root command: expand config_patterns (or the
// RSPLUG_CONFIG_FILES fallback) into file paths and drive one App.Run.
func (c *CLI) runSync(cmd *cobra.Command, args []string) error {
	install, _ := cmd.Flags().GetBool("install")
	update, _ := cmd.Flags().GetBool("update")
	locked, _ := cmd.Flags().GetBool("locked")
	lockfile, _ := cmd.Flags().GetString("lockfile")
	out, _ := cmd.Flags().GetString("out")

	if locked && update {
		return zerr.Wrap(domain.ErrUsage, "--locked and --update are mutually exclusive")
	}

	patterns := args
	if len(patterns) == 0 {
		if env := os.Getenv(configFilesEnv); env != "" {
			patterns = strings.Split(env, ":")
		}
	} else {
		patterns = splitPatternArgs(args)
	}
	if len(patterns) == 0 {
		return zerr.Wrap(domain.ErrUsage, "no config_patterns given and "+configFilesEnv+" is unset")
	}

	paths, err := expandPatterns(patterns)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrUsage, "expand config_patterns"), "cause", err.Error())
	}
	if len(paths) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrUsage, "config_patterns matched no files"), "patterns", patterns)
	}

	return c.app.Run(cmd.Context(), app.Options{
		ConfigPaths:  paths,
		Install:      install,
		Update:       update,
		Locked:       locked,
		LockfilePath: lockfile,
		OutRoot:      out,
	})
}

// splitPatternArgs re-splits positional args on ":" so
// `rsplug a.yaml:b.yaml` and `rsplug a.yaml b.yaml` are equivalent.
func splitPatternArgs(args []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, strings.Split(a, ":")...)
	}
	return out
}

// expandPatterns glob-expands each pattern, concatenating matches in
// pattern order and deduplicating exact path repeats.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if matches == nil {
			matches = []string{pattern}
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}
