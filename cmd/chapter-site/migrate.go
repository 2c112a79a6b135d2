package main

import (
	"fmt"
	"os"
	"path/filepath"

	"chapterSite/internal/config"
	"chapterSite/internal/storage/postgres"
	"chapterSite/internal/storage/sqlite"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			if err := migrateUp(cfg); err != nil {
				return err
			}

			cmd.Println("migrations applied")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1, got %d", steps)
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			if err := migrateDown(cfg, steps); err != nil {
				return err
			}

			cmd.Printf("rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func migrateUp(cfg *config.Config) error {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
		return sqlite.MigrateUp(cfg.Storage.SQLitePath)
	case config.DriverPostgres:
		return postgres.MigrateUp(postgres.MigrationURL(&cfg.Database))
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func migrateDown(cfg *config.Config, steps int) error {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return sqlite.MigrateDown(cfg.Storage.SQLitePath, steps)
	case config.DriverPostgres:
		return postgres.MigrateDown(postgres.MigrationURL(&cfg.Database), steps)
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
