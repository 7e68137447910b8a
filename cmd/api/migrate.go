package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/employee-tracker-api/internal/config"
	"github.com/employee-tracker-api/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(cmd.Context(), func(db *gorm.DB, driver string) error {
					applied, err := database.Migrate(cmd.Context(), db, driver)
					if err != nil {
						return err
					}
					logger.Info("migrations applied", slog.Int("count", applied))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(cmd.Context(), func(db *gorm.DB, driver string) error {
					if err := database.Rollback(cmd.Context(), db, driver); err != nil {
						return err
					}
					logger.Info("migration rolled back")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(cmd.Context(), func(db *gorm.DB, driver string) error {
					version, err := database.Version(cmd.Context(), db, driver)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), version)
					return nil
				})
			},
		},
	)

	return cmd
}

// withDatabase открывает БД без применения миграций и закрывает её после fn
func withDatabase(ctx context.Context, fn func(db *gorm.DB, driver string) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return fn(db, cfg.Database.Driver)
}
