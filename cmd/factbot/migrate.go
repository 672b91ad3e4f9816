package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/factbot/core/cmd"
	coredatabase "github.com/m3rciful/factbot/core/database"
	"github.com/m3rciful/factbot/core/logger"
	"github.com/m3rciful/factbot/internal/app"
	"github.com/m3rciful/factbot/internal/facts"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and optionally seed the built-in facts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := corecmd.ResolveConfigPath(app.RunOptions(configPath))
		if err != nil {
			return err
		}
		cfg, err := app.LoadConfig(path)
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled() {
			return fmt.Errorf("migrate: database.host is not configured")
		}
		if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
			return err
		}
		defer func() { _ = logger.Shutdown() }()

		ctx := cmd.Context()
		if err := coredatabase.RunMigrations(ctx, cfg.Database); err != nil {
			return err
		}
		if !migrateSeed && !cfg.Facts.Seed {
			return nil
		}

		db, err := coredatabase.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		n, err := facts.NewRepository(db).Seed(ctx, facts.Builtin())
		if err != nil {
			return err
		}
		logger.Info(ctx, "app", "migrate.done", slog.String("status", "ok"), slog.Int("count", n))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "upsert the built-in fact table after migrating")
	rootCmd.AddCommand(migrateCmd)
}
