// Package server wires the API server together: database and migrations,
// the optional catalog cache, services and the HTTP server, plus graceful
// shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/logging"
	"github.com/publiceyeusa/publiceye/internal/server/catalogcache"
	"github.com/publiceyeusa/publiceye/internal/server/config"
	httpapi "github.com/publiceyeusa/publiceye/internal/server/http"
	httpH "github.com/publiceyeusa/publiceye/internal/server/http/handlers"
	httpMW "github.com/publiceyeusa/publiceye/internal/server/http/middleware"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/repomanager"
	"github.com/publiceyeusa/publiceye/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	closeCache func() error
	server     *httpapi.Server
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if cfg.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		cfg.SecretKey = key
		logger.Warn(ctx, "no secret key configured, using a random one; tokens will not survive a restart")
	}

	db, err := openDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: cfg, logger: logger, db: db}

	var cache catalogcache.Cache = catalogcache.NopCache{}
	if cfg.RedisAddr != "" {
		rc, closeFn, err := catalogcache.NewRedisCache(ctx, cfg.RedisAddr, cfg.CatalogCacheTTL)
		if err != nil {
			logger.Warn(ctx, "catalog cache disabled", "error", err)
		} else {
			cache = rc
			app.closeCache = closeFn
		}
	}

	app.server = httpapi.NewServer(cfg.ListenAddr, logger, buildRouterConfig(db, rm, cache, cfg, logger))
	return app, nil
}

func buildRouterConfig(db *sql.DB, rm repomanager.RepositoryManager, cache catalogcache.Cache, cfg *config.Config, logger logging.Logger) httpapi.RouterConfig {
	us := services.NewUserService(db, rm, cfg)
	ps := services.NewProfileService(db, rm)
	as := services.NewAffiliationService(db, rm, cache, logger)

	return httpapi.RouterConfig{
		Logger:             logger.With("module", "http"),
		AuthMiddleware:     httpMW.NewAuthMiddleware(logger, us),
		UserHandler:        httpH.NewUserHandler(us),
		ProfileHandler:     httpH.NewProfileHandler(ps),
		AffiliationHandler: httpH.NewAffiliationHandler(as),
		HealthHandler:      httpH.NewHealthHandler(db),
		AdminRegisterPath:  cfg.AdminRegisterPath,
		AllowedOrigins:     cfg.AllowedOrigins,
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// releases the database and cache connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.ListenAddr)
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "server error", "error", err)
	}

	if app.closeCache != nil {
		if cerr := app.closeCache(); cerr != nil {
			app.logger.Warn(context.Background(), "closing cache", "error", cerr)
		}
	}
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(context.Background(), "closing database", "error", cerr)
	}

	app.logger.Info(context.Background(), "App stopped")
	return err
}
