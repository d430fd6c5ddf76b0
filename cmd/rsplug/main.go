// Package main is the entry point for the rsplug CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.rsplug.dev/rsplug/cmd/rsplug/commands"
	"go.rsplug.dev/rsplug/internal/app"
	_ "go.rsplug.dev/rsplug/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return commands.ExitCode(err)
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return commands.ExitCode(err)
	}
	return 0
}
