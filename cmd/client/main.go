package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/publiceyeusa/publiceye/internal/client/cli"
	"github.com/publiceyeusa/publiceye/internal/client/config"
	"github.com/publiceyeusa/publiceye/internal/client/state"
	"github.com/publiceyeusa/publiceye/internal/flagx"
	"github.com/publiceyeusa/publiceye/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	ctx := context.Background()

	root := cli.NewRootCommand(func(ctx context.Context) (*cli.App, error) {
		return cli.NewApp(ctx, cfg, logger)
	})
	root.SetArgs(flagx.StripArgs(args, config.AllFlags))

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", state.ErrorMessage(err))
		return 1
	}
	return 0
}
