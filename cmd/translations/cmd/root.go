package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/di"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/runtimeconfig"
	"github.com/goliatone/go-translations/internal/storage"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "translations",
	Short: "Bilingual (English/Nepali) translation service",
	Long: `translations manages key-based English/Nepali translations with
versioned history, import/export and completeness reports, and localizes
marketplace content.

Commands:
  serve     - run the REST API
  migrate   - create the database schema
  export    - write every key as JSON or CSV
  import    - upsert keys from a JSON or CSV file
  validate  - report translation completeness
  rollback  - restore a key to an earlier version`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "TOML config file (defaults apply when empty)")
}

// app is the runtime shared by every subcommand.
type app struct {
	cfg       runtimeconfig.Config
	db        *bun.DB
	container *di.Container
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// bootstrap loads the config, opens the database and builds the container.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := runtimeconfig.LoadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := storage.Open(ctx, storage.Config{
		Driver:       cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Storage.AutoMigrate {
		if err := storage.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	container, err := di.NewContainer(cfg, di.WithBunDB(db))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build container: %w", err)
	}
	logging.StorageLogger(container.LoggerProvider()).Debug("storage.opened",
		"driver", cfg.Storage.Driver,
		"migrated", cfg.Storage.AutoMigrate,
	)
	return &app{cfg: cfg, db: db, container: container}, nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
