package main

import (
	"ecommerce-shop/internal/client"
	"ecommerce-shop/internal/middleware"
	"ecommerce-shop/internal/repository"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token [username]",
		Short: "Print a bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			db, err := client.InitDatabase(cfg.Database)
			if err != nil {
				return err
			}

			user, err := repository.NewUserRepository(db).FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if ttl == 0 {
				ttl = cfg.Auth.TokenTTL
			}
			token, err := middleware.IssueToken(cfg.Auth.JWTSecret, user, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL)")

	return cmd
}
