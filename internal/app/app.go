package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/pulsar/internal/config"
	"github.com/five82/pulsar/internal/console"
	"github.com/five82/pulsar/internal/logging"
	"github.com/five82/pulsar/internal/prefs"
	"github.com/five82/pulsar/internal/remote"
	"github.com/five82/pulsar/internal/state"
	"github.com/five82/pulsar/internal/store"
	"github.com/five82/pulsar/internal/ui"
)

const healthCheckTimeout = 3 * time.Second

// Options configure the pulsar application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pulsar/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
	// ImportPath is an NDJSON file loaded into the store before the UI starts.
	ImportPath string
	// Demo seeds a short sample session.
	Demo bool
}

// Run boots the pulsar console until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.Initialize(cfg.LogFile, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if opts.ImportPath != "" {
		n, skipped, err := importFile(ctx, st, opts.ImportPath, 0)
		if err != nil {
			return err
		}
		logger.Info("import finished", "path", opts.ImportPath, "entities", n, "skipped", skipped)
	}
	if opts.Demo {
		if err := seedDemo(ctx, st, time.Now()); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var link *state.Store
	if cfg.APIBind != "" {
		client, err := remote.NewClient(cfg.APIBind)
		if err != nil {
			return fmt.Errorf("init relay client: %w", err)
		}
		link = &state.Store{}
		link.SetRelay(client.BaseURL())
		checkRelay(ctx, client, logger)

		interval := cfg.PollInterval
		if opts.PollEvery > 0 {
			interval = time.Duration(opts.PollEvery) * time.Second
		}
		NewPoller(client, st, link, interval, logger).Start(ctx)
	}

	con := console.New(st, st, console.Config{
		Query:      cfg.Query(),
		Render:     userPrefs.RenderOptions(),
		Search:     userPrefs.SearchOptions(),
		Throttle:   cfg.SearchThrottle,
		Follow:     userPrefs.Follow,
		OnlyErrors: userPrefs.OnlyErrors,
		Logger:     logger,
	})
	errc := make(chan error, 1)
	go func() { errc <- con.Run(ctx) }()

	uiErr := ui.Run(ui.Options{
		Context:   ctx,
		Console:   con,
		Link:      link,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Filter:    cfg.Filter,
		Order:     cfg.Order,
	})
	cancel()
	if err := <-errc; err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return uiErr
}

// openStore opens the SQLite database named by the config, or an in-memory
// store when none is set.
func openStore(cfg config.Config) (store.ReadWriter, error) {
	if cfg.StorePath == "" {
		return store.NewMemory(), nil
	}
	db, err := store.OpenSQLite(store.SQLiteConfig{Path: cfg.StorePath, WAL: true})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return db, nil
}

// checkRelay logs whether the relay answers. An unreachable relay is not
// fatal: the poller keeps retrying with backoff.
func checkRelay(ctx context.Context, client *remote.Client, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	health, err := client.Health(ctx)
	switch {
	case err != nil:
		logger.Warn("relay unreachable", "relay", client.BaseURL(), "error", err)
	case !health.OK():
		logger.Warn("relay unhealthy", "relay", client.BaseURL(), "status", health.Status)
	default:
		logger.Info("relay reachable", "relay", client.BaseURL(), "version", health.Version, "entities", health.Entities)
	}
}
