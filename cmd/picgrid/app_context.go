package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/picgrid/internal/catalog"
	"github.com/alexisbeaulieu97/picgrid/internal/config"
	"github.com/alexisbeaulieu97/picgrid/internal/favorites"
	"github.com/alexisbeaulieu97/picgrid/internal/kvstore"
	"github.com/alexisbeaulieu97/picgrid/internal/logger"
	"github.com/alexisbeaulieu97/picgrid/internal/ports"
	"github.com/alexisbeaulieu97/picgrid/internal/settings"
)

// AppContext bundles long-lived services created at startup.
type AppContext struct {
	Config    *config.Config
	Logger    *logger.Logger
	Store     ports.KeyValueStore
	Catalog   *catalog.Client
	Favorites *favorites.Store
	Settings  *settings.Store

	logFile io.Closer
}

// newAppContext loads configuration and opens the store. In interactive mode
// logs go to the configured log file; otherwise to stderr at warn level
// unless --verbose is set.
func newAppContext(cmd *cobra.Command, flags *rootFlags, interactive bool) (*AppContext, context.Context, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, newCommandError("load configuration", configSource(flags.configPath), err,
			"Fix the reported setting in the config file or PICGRID_* environment variables.")
	}

	app := &AppContext{Config: cfg}

	opts := logger.Options{Level: cfg.Logging.Level, HumanReadable: true, Writer: cmd.ErrOrStderr()}
	if interactive {
		file, err := openLogFile(cfg.Logging.File)
		if err != nil {
			return nil, nil, newCommandError("open log file", cfg.Logging.File, err,
				"Set logging.file to a writable location.")
		}
		app.logFile = file
		opts.Writer = file
		opts.HumanReadable = cfg.Logging.HumanReadable
	} else if !flags.verbose {
		opts.Level = "warn"
	}
	if flags.verbose {
		opts.Level = "debug"
	}

	log, err := logger.New(opts)
	if err != nil {
		app.Close()
		return nil, nil, newCommandError("create logger", "logging.level="+opts.Level, err, "Use one of trace, debug, info, warn or error.")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithCorrelationID(ctx, logger.NewCorrelationID())
	app.Logger = log.WithContext(ctx).WithComponent("command." + cmd.Name())

	store, err := kvstore.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path, app.Logger)
	if err != nil {
		app.Close()
		return nil, nil, newCommandError("open storage", cfg.Storage.Driver+" store at "+cfg.Storage.Path, err,
			"Check storage.path permissions or remove a corrupt store file.")
	}
	app.Store = store

	app.Catalog = catalog.New(catalog.Options{
		BaseURL:           cfg.Catalog.BaseURL,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
		Logger:            app.Logger,
	})
	app.Favorites = favorites.NewStore(store, app.Logger)
	app.Settings = settings.NewStore(store, app.Logger)

	app.Logger.WithFields(map[string]any{
		"storage_driver": cfg.Storage.Driver,
		"storage_path":   cfg.Storage.Path,
		"catalog":        cfg.Catalog.BaseURL,
	}).Debug("application context ready")

	return app, ctx, nil
}

// Close releases the store and the log file.
func (a *AppContext) Close() {
	if a == nil {
		return
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn(err, "failed to close store")
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func configSource(path string) string {
	if path == "" {
		return "defaults, ~/.picgrid/config.yaml and PICGRID_* environment"
	}
	return path
}
