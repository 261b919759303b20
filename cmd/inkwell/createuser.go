package main

import (
	"fmt"

	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
	"github.com/spf13/cobra"
)

var (
	createUsername string
	createPassword string
)

func init() {
	createUserCmd.Flags().StringVarP(&createUsername, "username", "u", "", "login name")
	createUserCmd.Flags().StringVarP(&createPassword, "password", "p", "", "login password")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("password")
	RootCmd.AddCommand(createUserCmd)
}

var createUserCmd = &cobra.Command{
	Use:   "createuser",
	Short: "Create a user that can log in and manage posts",
	Args:  cobra.NoArgs,
	RunE:  createUser,
}

func createUser(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := db.Init(cfg.DatabasePath); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	user, err := service.NewUserService(db.DB).EnsureUser(createUsername, createPassword)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "user %s is ready (id %d)\n", user.Username, user.ID)
	return nil
}
