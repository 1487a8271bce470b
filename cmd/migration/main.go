package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jt828/perf-metrics/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	source     string
	steps      int
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "migration",
		Short:        "Apply or roll back the blob store schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file; PERF_DATABASE_DSN overrides it")
	root.PersistentFlags().StringVar(&opts.source, "source", "file://migrations", "migration source URL")
	root.PersistentFlags().IntVar(&opts.steps, "steps", 0, "number of steps to migrate (0 = all)")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrateWith(cmd, opts, func(m *migrate.Migrate) error {
					if opts.steps > 0 {
						return m.Steps(opts.steps)
					}
					return m.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back applied migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrateWith(cmd, opts, func(m *migrate.Migrate) error {
					if opts.steps > 0 {
						return m.Steps(-opts.steps)
					}
					return m.Down()
				})
			},
		},
	)
	return root
}

func migrateWith(cmd *cobra.Command, opts *options, apply func(*migrate.Migrate) error) error {
	if opts.steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", opts.steps)
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	m, err := migrate.New(opts.source, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := apply(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
	return nil
}
