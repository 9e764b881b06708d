package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/jobtrack/internal/server"
)

func newTokenCmd(c *cli) *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local development",
		Long:  "Signs a bearer token for a user ID with the configured auth secret. A random user ID is used when --user is empty.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID := uuid.New()
			if userFlag != "" {
				parsed, err := uuid.Parse(userFlag)
				if err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
				userID = parsed
			}

			cfg, _, err := c.load(true)
			if err != nil {
				return err
			}
			if err := cfg.Auth.Validate(); err != nil {
				return err
			}

			token, err := server.NewJWTService(cfg.Auth).GenerateToken(userID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "User UUID to put in the token subject")
	return cmd
}
