package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lrucache/internal/cli"
)

// Set via ldflags.
var version = "dev"

func main() {
	// SIGINT/SIGTERM cancels the context; replay stops between lines.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.NewRootCmd(version).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
