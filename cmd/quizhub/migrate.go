package main

import (
	"fmt"

	"github.com/quizhub/quizhub/cmd"
	"github.com/quizhub/quizhub/pkg/backend"
	"github.com/quizhub/quizhub/pkg/db"
	"github.com/quizhub/quizhub/pkg/db/migrate"
	"github.com/spf13/cobra"
)

var (
	rollback bool

	migrateCmd = &cobra.Command{
		Use:                "migrate",
		Short:              "Migrate the database to the latest version",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  cmd.InitBackendContext,
		PersistentPostRunE: cmd.CloseDBContext,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			dbx := db.FromContext(ctx)
			if rollback {
				if err := migrate.Rollback(ctx, dbx); err != nil {
					return fmt.Errorf("rollback: %w", err)
				}
				return nil
			}

			if err := migrate.Migrate(ctx, dbx); err != nil {
				return fmt.Errorf("migration: %w", err)
			}

			return nil
		},
	}

	sweepCmd = &cobra.Command{
		Use:                "sweep",
		Short:              "Send quiz retake reminders once",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  cmd.InitBackendContext,
		PersistentPostRunE: cmd.CloseDBContext,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)
			n, err := be.NotifyRetakes(ctx)
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}

			fmt.Fprintf(c.OutOrStdout(), "Sent %d reminder(s)\n", n)
			return nil
		},
	}
)

func init() {
	migrateCmd.Flags().BoolVar(&rollback, "rollback", false, "rollback the database to the previous version")
}
