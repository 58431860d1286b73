package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/five82/shakeit/internal/cocktaildb"
	"github.com/five82/shakeit/internal/config"
	"github.com/five82/shakeit/internal/favorites"
	"github.com/five82/shakeit/internal/prefs"
	"github.com/five82/shakeit/internal/render"
	"github.com/five82/shakeit/internal/session"
	"github.com/five82/shakeit/internal/state"
)

// Options configure one shakeit invocation.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shakeit/prefs.toml
	EnvFile    string // empty uses ./.env when present
	Grid       bool   // force grid layout for this run
	Out        io.Writer
	ErrOut     io.Writer
}

// app holds everything a command needs.
type app struct {
	opts    Options
	prefs   prefs.Prefs
	logger  *slog.Logger
	lookup  cocktaildb.Lookup
	favs    *favorites.Store
	session *session.Session
	printer *render.Printer
}

// Run wires configuration, the remote client, the favorites store and a
// session together, then executes the command named by args.
func Run(ctx context.Context, opts Options, args []string) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger := slog.New(slog.NewTextHandler(opts.ErrOut, &slog.HandlerOptions{Level: cfg.LogLevel}))

	client, err := cocktaildb.NewClient(cfg.APIBase)
	if err != nil {
		return fmt.Errorf("init cocktaildb client: %w", err)
	}
	logger.Debug("using cocktail api", "base", client.BaseURL())

	favs, err := favorites.Open(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("open favorites: %w", err)
	}
	defer func() {
		if err := favs.Close(); err != nil {
			logger.Warn("close favorites", "error", err)
		}
	}()

	mode := state.ParseViewMode(userPrefs.ViewMode)
	if opts.Grid {
		mode = state.ViewGrid
	}
	store := state.NewStore(state.Snapshot{ViewMode: mode})

	sess := session.New(ctx, client, favs, store, logger)
	defer sess.Close()

	a := &app{
		opts:    opts,
		prefs:   userPrefs,
		logger:  logger,
		lookup:  client,
		favs:    favs,
		session: sess,
		printer: render.New(opts.Out, userPrefs.GridColumns),
	}
	return a.dispatch(ctx, args)
}

// settle waits for in-flight work and reports any write failure recorded
// in the snapshot.
func (a *app) settle() (state.Snapshot, error) {
	a.session.Wait()
	snap := a.session.Store().Snapshot()
	if snap.Error != "" {
		_ = a.printer.Error(snap.Error)
		return snap, errors.New(snap.Error)
	}
	return snap, nil
}
