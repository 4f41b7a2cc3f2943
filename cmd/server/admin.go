package main

import (
	"errors"
	"fmt"

	"github.com/AnshRaj112/journal-backend/internal/config"
	"github.com/AnshRaj112/journal-backend/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.EntryStore == config.EntryStoreMemory {
			return errors.New("nothing to migrate with ENTRY_STORE=memory")
		}
		db, err := database.ConnectPostgres(cmd.Context(), cfg.PostgresURI)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()
		if err := database.MigratePostgres(db); err != nil {
			return err
		}
		log.Info("Migrations applied")
		return nil
	},
}

var (
	adminEmail    string
	adminPassword string
)

var ensureAdminCmd = &cobra.Command{
	Use:   "ensure-admin",
	Short: "Create the default staff account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password := adminEmail, adminPassword
		if email == "" {
			email = cfg.AdminEmail
		}
		if password == "" {
			password = cfg.AdminPassword
		}
		if password == "" {
			return errors.New("admin password required (--password or ADMIN_PASSWORD)")
		}

		st, err := openStores(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer st.Close()

		_, auth, err := buildHandler(cmd.Context(), st)
		if err != nil {
			return err
		}
		created, err := auth.EnsureAdmin(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if created {
			log.Info("Admin account created", zap.String("email", email))
		} else {
			log.Info("Admin account already exists", zap.String("email", email))
		}
		return nil
	},
}

func init() {
	ensureAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (default ADMIN_EMAIL)")
	ensureAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (default ADMIN_PASSWORD)")
}
