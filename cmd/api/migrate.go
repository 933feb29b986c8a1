package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openStore(cmd.Context(), cfg, logger, true)
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("migrations complete", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the administrator account from ADMIN_EMAIL and ADMIN_PASSWORD",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
			return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
		}
		db, err := openStore(cmd.Context(), cfg, logger, true)
		if err != nil {
			return err
		}
		defer db.Close()

		// Revocation is unused here; logins are not issued by this command.
		authService := service.NewAuthService(cfg.Auth, db.store, nil)
		user, created, err := authService.SeedAdmin(cmd.Context(), cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		if created {
			logger.Info("admin account created", zap.String("id", user.ID), zap.String("email", user.Email))
		} else {
			logger.Info("admin account already exists", zap.String("id", user.ID), zap.String("email", user.Email))
		}
		return nil
	},
}
