package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"yamdb/internal/data/repository"
	"yamdb/internal/data/repository/memrepo"
	"yamdb/pkg/database"
	"yamdb/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "YaMDb - media catalog and review API",
	Long: `YaMDb collects user reviews of titles (films, books, music) grouped
by category and genre.

Commands:
  serve            - Start the HTTP API
  migrate          - Apply the database schema
  createsuperuser  - Create an admin account`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and the logger shared by every command.
func bootstrap() (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	return config, logger, nil
}

// openStore returns the repository set for STORE_DRIVER and a close func.
func openStore(config *utils.Config, logger *zap.Logger) (*repository.Repository, func(), error) {
	switch config.App.StoreDriver {
	case "memory":
		logger.Warn("Using in-memory store; data is lost on exit")
		return memrepo.New(), func() {}, nil
	case "postgres", "":
		db, err := database.InitDB(config.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		logger.Info("Database connected successfully")
		return repository.NewRepository(db, logger), db.Close, nil
	default:
		return nil, nil, errors.New("unknown STORE_DRIVER " + config.App.StoreDriver)
	}
}
