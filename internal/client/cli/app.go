package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/publiceyeusa/publiceye/internal/client/client"
	"github.com/publiceyeusa/publiceye/internal/client/config"
	"github.com/publiceyeusa/publiceye/internal/client/repositories/metadata"
	"github.com/publiceyeusa/publiceye/internal/client/routing"
	"github.com/publiceyeusa/publiceye/internal/client/state"
	"github.com/publiceyeusa/publiceye/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App is the terminal shell: the three state containers, the current path
// and the terminal it renders pages to.
type App struct {
	config  *config.Config
	logger  logging.Logger
	api     client.Client
	auth    *state.Auth
	profile *state.Profile
	catalog *state.Affiliations
	reader  *bufio.Reader
	out     io.Writer
	closeDB func() error

	mu   sync.Mutex
	path string
	mode Mode
}

// NewApp opens the local state database and wires the containers to the
// API at cfg.BaseURL.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	api, err := client.NewHTTPClient(cfg.BaseURL, cfg.Timeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	tokens := state.NewTokenStore(metadata.NewSQLiteRepository(db))
	a := newApp(cfg, logger, api, tokens, os.Stdin, os.Stdout)
	a.closeDB = db.Close
	return a, nil
}

func newApp(cfg *config.Config, logger logging.Logger, api client.Client, tokens state.TokenStore, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &App{
		config:  cfg,
		logger:  logger.With("module", "cli"),
		api:     api,
		auth:    state.NewAuth(api, tokens, logger),
		profile: state.NewProfile(api),
		catalog: state.NewAffiliations(api),
		reader:  bufio.NewReader(in),
		out:     out,
		path:    routing.PathHome,
	}
}

func (a *App) Close() error {
	if a.closeDB == nil {
		return nil
	}
	return a.closeDB()
}

func (a *App) isLoggedIn() bool {
	return a.auth.Snapshot().Authenticated()
}

func (a *App) currentPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

func (a *App) setPath(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.path = path
}

// Mount runs the start-up dispatches. Without an identity it confirms the
// stored session, then loads the profile (signed in only) and the catalog
// side by side.
func (a *App) Mount(ctx context.Context) {
	if a.auth.Snapshot().User != "" {
		return
	}
	if err := a.auth.Confirm(ctx); err != nil {
		a.logger.Warn(ctx, "session not confirmed", "error", err)
	}

	var g errgroup.Group
	if a.isLoggedIn() {
		g.Go(func() error { return a.profile.Fetch(ctx) })
	}
	g.Go(func() error { return a.catalog.Fetch(ctx) })
	if err := g.Wait(); err != nil {
		a.logger.Warn(ctx, "initial fetch failed", "error", err)
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(pingCtx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// getStatus renders the prompt tag, e.g. "(ann@example.org online)".
func (a *App) getStatus() string {
	s := a.auth.Snapshot().User

	a.mu.Lock()
	mode := a.mode
	a.mu.Unlock()

	if mode != "" {
		if s != "" {
			s += " "
		}
		s += string(mode)
	}
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}

// Shell mounts the app, renders the current page and runs the REPL until
// the user quits or input ends.
func (a *App) Shell(ctx context.Context) {
	printlnFn("Welcome to PublicEye (type 'help' for commands)")

	a.Mount(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	if err := a.Navigate(ctx, a.currentPath()); err != nil {
		printError(err)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
