package main

import (
	"fmt"
	"log/slog"

	"github.com/employee-tracker-api/internal/database"
	"github.com/spf13/cobra"
)

func newUserCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	var username, email, password string

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a login account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer database.Close(a.db)

			user, err := a.auth.Register(cmd.Context(), username, email, password)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			logger.Info("user created", slog.Int64("id", user.ID), slog.String("username", user.Username))
			return nil
		},
	}

	create.Flags().StringVar(&username, "username", "", "login name")
	create.Flags().StringVar(&email, "email", "", "contact email")
	create.Flags().StringVar(&password, "password", "", "password, 8 to 72 bytes")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}
