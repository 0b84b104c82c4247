package cmd

import (
	"fmt"

	"github.com/codenest/erp-backend/internal/config"
	"github.com/codenest/erp-backend/internal/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every embedded migration that has not run yet.

Examples:
  nestctl migrate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		version, err := database.Migrate(cfg.DatabaseURL())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Database at version %d\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
