package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/andeslogistics/dock-scheduler/internal/config"
	"github.com/andeslogistics/dock-scheduler/internal/database"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/service"
	"github.com/andeslogistics/dock-scheduler/internal/store/postgres"
	"github.com/spf13/cobra"
)

var (
	seedAdminUsername string
	seedAdminPassword string
	seedAdminName     string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create an administrator user",
	RunE:  runSeedAdmin,
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedAdminUsername, "username", "admin", "admin username")
	seedAdminCmd.Flags().StringVar(&seedAdminPassword, "password", "", "admin password (required)")
	seedAdminCmd.Flags().StringVar(&seedAdminName, "name", "Administrator", "display name")
	seedAdminCmd.MarkFlagRequired("password")
}

func runSeedAdmin(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	svc := service.NewAuthService(postgres.NewStore(db))
	u, err := svc.Register(context.Background(), seedAdminName, seedAdminUsername, seedAdminPassword, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("seed-admin: created user %q (id=%d)", u.Username, u.ID)
	return nil
}
