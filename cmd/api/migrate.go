package main

import (
	"github.com/geocoder89/koinonia/internal/config"
	"github.com/geocoder89/koinonia/internal/db"
	"github.com/geocoder89/koinonia/internal/observability"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := observability.NewLogger(cfg.Env)

			if err := db.MigrateUp(cfg.DBURL); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last N migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := observability.NewLogger(cfg.Env)

			if err := db.MigrateDown(cfg.DBURL, steps); err != nil {
				return err
			}
			log.Info("migrations rolled back", "steps", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}
