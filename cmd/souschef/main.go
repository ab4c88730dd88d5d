package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mberg/souschef/internal/cli"
	"github.com/mberg/souschef/pkg/logging"
)

func main() {
	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Root().Run(ctx, os.Args); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
