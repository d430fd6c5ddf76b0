// Package commands implements rsplug's CLI surface
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.rsplug.dev/rsplug/internal/app"
)

// CLI represents the command line interface for rsplug.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a CLI around the given orchestrator.
func New(a *app.App) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "rsplug [OPTIONS] <config_patterns>...",
		Short:         "Declarative, out-of-editor package builder",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE:          c.runSync,
	}

	rootCmd.Flags().BoolP("install", "i", false, "install missing plugins")
	rootCmd.Flags().BoolP("update", "u", false, "fetch and update existing plugins")
	rootCmd.Flags().Bool("locked", false, "use exact revisions from lockfile (mutually exclusive with --update)")
	rootCmd.Flags().String("lockfile", "", "override lockfile path (default: <cache_root>/rsplug.lock.json)")
	rootCmd.Flags().String("out", "", "override output pack directory (default: <cache_root>/pack)")

	rootCmd.AddCommand(c.newVersionCmd())

	c.rootCmd = rootCmd
	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
