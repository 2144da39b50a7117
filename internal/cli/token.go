package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"ieee-quiz-service/internal/auth"
	"ieee-quiz-service/internal/config"
)

// NewTokenCmd mints a development access token signed with the configured secret.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		userID string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret not configured")
			}
			if userID == "" {
				userID = uuid.NewString()
			}
			token, err := auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer).Issue(userID, name, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user: %s\ntoken: %s\n", userID, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (random UUID when empty)")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenDuration, "token lifetime")
	return cmd
}
