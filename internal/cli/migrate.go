package cli

import (
	"fmt"

	"ride-booking/internal/config"
	"ride-booking/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		version, err := database.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
		return nil
	},
}
