package cli

import (
	"fmt"
	"time"

	"ride-booking/internal/config"
	"ride-booking/internal/server"

	"github.com/spf13/cobra"
)

var (
	tokenUser  string
	tokenEmail string
	tokenRole  string
	tokenTTL   time.Duration
)

// tokenCmd signs a bearer token with JWT_SECRET for local testing.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a development bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		token, err := server.IssueToken(cfg.JWTSecret, tokenUser, tokenEmail, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "User id placed in the sub claim")
	tokenCmd.Flags().StringVarP(&tokenEmail, "email", "e", "", "Email claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "", `Role claim; "admin" may manage the fleet`)
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	tokenCmd.MarkFlagRequired("user")
}
