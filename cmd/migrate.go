package cmd

import (
	"context"
	"errors"

	"yamdb/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the embedded SQL migrations to the configured Postgres database.
Migrations are idempotent and safe to re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context) error {
	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if config.App.StoreDriver == "memory" {
		return errors.New("migrate needs STORE_DRIVER=postgres")
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Migrate(ctx, db, logger)
}
