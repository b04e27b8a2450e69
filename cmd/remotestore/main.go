// Command remotestore moves repository files between this machine and a remote store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(ctx, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("remotestore: %v", err))
		stop()
		os.Exit(1)
	}
}
