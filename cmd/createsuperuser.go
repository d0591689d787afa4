package cmd

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	superuserName  string
	superuserEmail string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an admin account",
	Long: `Create a superuser with the admin role. The account signs in through
the normal confirmation-code flow.

Examples:
  yamdb createsuperuser --username root --email root@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateSuperuser(cmd.Context())
	},
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserName, "username", "", "Username of the new admin")
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "Email of the new admin")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createSuperuserCmd)
}

func runCreateSuperuser(ctx context.Context) error {
	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if config.App.StoreDriver == "memory" {
		return errors.New("createsuperuser needs STORE_DRIVER=postgres")
	}

	repo, closeStore, err := openStore(config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	users := usecase.NewUserService(repo.User, logger)
	user, err := users.CreateSuperuser(ctx, superuserName, superuserEmail)
	if err != nil {
		return err
	}

	logger.Info("Superuser created", zap.String("username", user.Username))
	fmt.Printf("Superuser %s created\n", user.Username)
	return nil
}
