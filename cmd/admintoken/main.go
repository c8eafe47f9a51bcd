package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/odp-Dev/opendoor-growth-hub-main/internal/admin/auth"
	adminrepo "github.com/odp-Dev/opendoor-growth-hub-main/internal/admin/repository"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/config"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/sealer"

	"github.com/spf13/cobra"
)

const JobName = "admin-token"

var (
	issueUserID string
	issueGrant  bool
)

var rootCmd = &cobra.Command{
	Use:           "admintoken",
	Short:         "Manage admin dashboard sessions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Print a fresh ADMIN_SESSION_KEY",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := sealer.GenerateKey()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
		return err
	},
}

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer session for a user",
	Long:  "Issue a bearer session for a user, sealed with ADMIN_SESSION_KEY. With --grant the user is also given the admin role.",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := strings.TrimSpace(issueUserID)
		if userID == "" {
			return fmt.Errorf("--user cannot be empty")
		}

		cfg := config.Load(JobName)
		if cfg.AdminSessionKey == "" {
			return fmt.Errorf("ADMIN_SESSION_KEY must be set")
		}
		sessionSealer, err := sealer.New(cfg.AdminSessionKey)
		if err != nil {
			return fmt.Errorf("invalid ADMIN_SESSION_KEY: %w", err)
		}

		if issueGrant {
			cfg.SetMongo()
			defer cfg.GracefulShutdown()

			roles := adminrepo.NewMongoRoleRepository(cfg)
			if err := roles.Grant(cmd.Context(), userID, model.RoleAdmin); err != nil {
				return fmt.Errorf("failed to grant admin role: %w", err)
			}
			cfg.Log.Info("Admin role granted", "user_id", userID)
		}

		token, expiresAt, err := auth.NewSessions(sessionSealer, cfg.AdminSessionTTL).Issue(userID)
		if err != nil {
			return err
		}
		cfg.Log.Info("Admin session issued", "user_id", userID, "expires_at", expiresAt)

		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	issueCmd.Flags().StringVar(&issueUserID, "user", "", "user ID the session belongs to")
	issueCmd.Flags().BoolVar(&issueGrant, "grant", false, "also grant the admin role in Mongo")
	_ = issueCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(keygenCmd, issueCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "admintoken:", err)
		os.Exit(1)
	}
}
