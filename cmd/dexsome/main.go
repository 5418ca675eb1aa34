package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/thesavant42/dexsome/internal/api"
	"github.com/thesavant42/dexsome/internal/catalog"
	"github.com/thesavant42/dexsome/internal/config"
	"github.com/thesavant42/dexsome/internal/db"
	"github.com/thesavant42/dexsome/internal/prefs"
	"github.com/thesavant42/dexsome/internal/ui"
)

type options struct {
	configPath string
	dbPath     string
	backend    string
	profileDir string
	noSplash   bool
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	var opts options
	root := &cobra.Command{
		Use:   "dexsome",
		Short: "Browse the creature catalog in the terminal",
		Long: `dexsome is a terminal catalog browser. It loads the catalog index, resolves
records in growing windows and lets you search, filter by type and generation,
keep favorites and compare up to three records side by side.

Favorites, the compare selection and the view mode persist between sessions.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	root.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	root.Flags().StringVar(&opts.dbPath, "db", "", "Path to the SQLite database (overrides config)")
	root.Flags().StringVar(&opts.backend, "backend", "", "Preference storage: sqlite, file or memory")
	root.Flags().StringVar(&opts.profileDir, "profile-dir", "", "Pick a profile database from this directory")
	root.Flags().BoolVar(&opts.noSplash, "no-splash", false, "Skip the splash screen")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
	}
	if opts.dbPath != "" {
		cfg.Storage.DBPath = opts.dbPath
	}
	if opts.profileDir != "" && cfg.Storage.Backend == config.BackendSQLite {
		path, err := ui.PromptForProfile(opts.profileDir)
		if err != nil {
			return err
		}
		cfg.Storage.DBPath = path
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logFile, err := config.NewLogger(cfg, "dexsome")
	if err != nil {
		return err
	}
	defer logFile.Close()

	if !opts.noSplash {
		if err := ui.ShowSplash(); err != nil {
			logger.Warn("Splash screen failed", "error", err)
		}
	}

	storeOpts, closer, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	storeOpts.Window = cfg.Window.Catalog()
	storeOpts.Logger = logger

	client := api.NewCatalogClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	ctrl := catalog.NewController(client, storeOpts)
	logger.Info("Starting dexsome", "session", ctrl.SessionID(), "backend", cfg.Storage.Backend, "api", client.BaseURL())

	err = ui.RunWithSpinner("Loading archived records...", func() error {
		_, err := ctrl.WarmFromArchive(ctx)
		return err
	})
	if err != nil {
		// continue with a cold cache
		logger.Warn("Archive warm start failed", "error", err)
	}

	return ui.RunBrowser(ctx, ctrl, logger)
}

// openStorage builds the preference store and record archive for the configured backend
func openStorage(cfg config.Config, logger *log.Logger) (catalog.Options, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		database, err := db.New(cfg.Storage.DBPath)
		if err != nil {
			return catalog.Options{}, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return catalog.Options{
			Prefs:   prefs.NewStore(database.Preferences(), logger),
			Archive: database,
		}, database, nil
	case config.BackendFile:
		return catalog.Options{
			Prefs: prefs.NewStore(prefs.NewFileBackend(cfg.Storage.PrefsPath), logger),
		}, nil, nil
	default:
		return catalog.Options{
			Prefs: prefs.NewStore(prefs.NewMemoryBackend(0), logger),
		}, nil, nil
	}
}
