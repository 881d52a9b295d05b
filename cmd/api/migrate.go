package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blog-backend/internal/infrastructure/database"
	"blog-backend/pkg/logger"
)

func newMigrateCmd(envErr error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(envErr, func(mg *database.Migrator) error {
					return mg.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(envErr, func(mg *database.Migrator) error {
					return mg.Down()
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(envErr, func(mg *database.Migrator) error {
					v, dirty, err := mg.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
					return nil
				})
			},
		},
	)

	return cmd
}

func withMigrator(envErr error, run func(*database.Migrator) error) error {
	cfg, err := bootstrap(envErr)
	if err != nil {
		return err
	}

	mg, err := database.NewMigrator(cfg.Database.PoolConfig().URL())
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := run(mg); err != nil {
		return err
	}

	v, dirty, err := mg.Version()
	if err == nil {
		logger.Info("migrations complete", map[string]interface{}{"version": v, "dirty": dirty})
	}
	return nil
}
