package cmd

import (
	"errors"
	"fmt"

	"github.com/Togather-Foundation/venues/internal/config"
	"github.com/Togather-Foundation/venues/internal/storage/postgres"
	"github.com/spf13/cobra"
)

var errNoDatabaseURL = errors.New("DATABASE_URL is required for migrations")

func newMigrateCommand(opts *globalOptions) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
		Long: `Apply, roll back, or inspect the venues and events schema migrations.

Migrations are read from MIGRATIONS_PATH (default: internal/storage/postgres/migrations).`,
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := migrationConfig(opts)
			if err != nil {
				return err
			}
			if err := postgres.MigrateUp(cfg.Database.URL, cfg.Storage.MigrationsPath); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
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
				return fmt.Errorf("--steps must be at least 1")
			}
			cfg, err := migrationConfig(opts)
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(cfg.Database.URL, cfg.Storage.MigrationsPath, steps); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	migrate.AddCommand(down)

	migrate.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := migrationConfig(opts)
			if err != nil {
				return err
			}
			version, dirty, ok, err := postgres.MigrationVersion(cfg.Database.URL, cfg.Storage.MigrationsPath)
			if err != nil {
				return fmt.Errorf("migration version: %w", err)
			}
			out := cmd.OutOrStdout()
			switch {
			case !ok:
				fmt.Fprintln(out, "no migrations applied")
			case dirty:
				fmt.Fprintf(out, "version %d (dirty)\n", version)
			default:
				fmt.Fprintf(out, "version %d\n", version)
			}
			return nil
		},
	})

	return migrate
}

func migrationConfig(opts *globalOptions) (config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if cfg.Database.URL == "" {
		return config.Config{}, errNoDatabaseURL
	}
	return cfg, nil
}
