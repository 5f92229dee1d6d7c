package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/publiceyeusa/publiceye/internal/logging"
	"github.com/publiceyeusa/publiceye/internal/server"
	"github.com/publiceyeusa/publiceye/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
