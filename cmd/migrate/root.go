package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/persistence"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or inspect the leave-service schema migrations",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newMigrationCmd(persistence.MigrateUp, "Apply all pending migrations"),
		newMigrationCmd(persistence.MigrateDown, "Roll back the most recent migration"),
		newMigrationCmd(persistence.MigrateStatus, "Print the applied state of every migration"),
	)
	return cmd
}

func newMigrationCmd(command persistence.MigrationCommand, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(command),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigration(cmd.Context(), command)
		},
	}
}

func runMigration(ctx context.Context, command persistence.MigrationCommand) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required")
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	logger.Info("running migrations", zap.String("command", string(command)))
	return persistence.Migrate(ctx, pg.Pool, command, logger)
}
