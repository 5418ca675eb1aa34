package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/thesavant42/dexsome/internal/api"
	"github.com/thesavant42/dexsome/internal/config"
	"github.com/thesavant42/dexsome/internal/db"
	"github.com/thesavant42/dexsome/internal/models"
	"github.com/thesavant42/dexsome/internal/ui"
)

type options struct {
	configPath string
	dbPath     string
	output     string
	refresh    bool
}

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	var opts options
	root := &cobra.Command{
		Use:   "dexsome-export",
		Short: "Archive the whole catalog and export it as markdown",
		Long: `dexsome-export resolves every record of the catalog into the SQLite archive
and writes a markdown table of id, name, types and stat total.

Records already in the archive are not fetched again unless --refresh is set.

Examples:
  # Export to a dated file in the current directory
  dexsome-export --output dexsome.md

  # Refetch everything into a separate database
  dexsome-export --db /tmp/catalog.db --refresh`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	root.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	root.Flags().StringVar(&opts.dbPath, "db", "", "Path to the SQLite database (overrides config)")
	root.Flags().StringVarP(&opts.output, "output", "o", "", "Markdown output file (prompts when empty)")
	root.Flags().BoolVar(&opts.refresh, "refresh", false, "Refetch records already in the archive")

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
	if opts.dbPath != "" {
		cfg.Storage.DBPath = opts.dbPath
	}
	// the archive always lives in SQLite
	cfg.Storage.Backend = config.BackendSQLite
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logFile, err := config.NewLogger(cfg, "dexsome-export")
	if err != nil {
		return err
	}
	defer logFile.Close()

	database, err := db.New(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if opts.refresh {
		if err := database.ClearRecords(ctx); err != nil {
			return err
		}
	}

	client := api.NewCatalogClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	var page *models.IndexPage
	var fetchErr error
	err = spinner.New().
		Title("Fetching catalog index...").
		Action(func() {
			page, fetchErr = client.FetchIndex(ctx, cfg.Window.CatalogSize, 0)
		}).
		Run()
	if err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	if fetchErr != nil {
		return fetchErr
	}

	archived, err := database.LoadRecords(ctx)
	if err != nil {
		return err
	}
	have := make(map[int]bool, len(archived))
	for _, r := range archived {
		have[r.ID] = true
	}

	var missing []string
	for _, s := range page.Results {
		if id := s.ID(); id > 0 && !have[id] {
			missing = append(missing, s.Name)
		}
	}
	logger.Info("Export starting", "index", len(page.Results), "archived", len(archived), "missing", len(missing))

	if len(missing) > 0 {
		var resolveErr error
		batch := api.NewBatchFetcher(client, logger)
		err = spinner.New().
			Title(fmt.Sprintf("Resolving %d records...", len(missing))).
			Action(func() {
				records, rerr := batch.ResolveWithProgress(ctx, missing, cfg.Window.BatchSize, func(done, total int) {
					logger.Debug("Batch settled", "done", done, "total", total)
				})
				resolveErr = rerr

				resolved := make([]models.FullRecord, 0, len(records))
				for _, r := range records {
					if r != nil {
						resolved = append(resolved, *r)
					}
				}
				if serr := database.SaveRecords(ctx, resolved); serr != nil && resolveErr == nil {
					resolveErr = serr
				}
			}).
			Run()
		if err != nil {
			return fmt.Errorf("spinner error: %w", err)
		}
		if resolveErr != nil {
			// export what was archived before the failure
			ui.PrintError(fmt.Sprintf("Some records could not be resolved: %v", resolveErr))
			logger.Error("Export resolve failed", "error", resolveErr)
		}
	}

	records, err := database.LoadRecords(ctx)
	if err != nil {
		return err
	}
	typeCounts, err := database.TypeCounts(ctx)
	if err != nil {
		return err
	}

	filename := opts.output
	if filename == "" {
		filename, err = ui.PromptForFilename(ui.DefaultExportName(time.Now()))
		if err != nil {
			return err
		}
	} else {
		filename = ui.NormalizeExportName(filename, ui.DefaultExportName(time.Now()))
	}

	if err := ui.ExportRecordsToMarkdown(filename, records, typeCounts); err != nil {
		return err
	}

	fmt.Println()
	ui.PrintTypeCounts(typeCounts)
	ui.PrintSuccess(fmt.Sprintf("Exported %d records to %s", len(records), filename))
	return nil
}
