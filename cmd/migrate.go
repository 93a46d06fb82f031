package cmd

import (
	"github.com/spf13/cobra"

	"styleshop/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := setup()
		db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info("schema up to date")
		return nil
	},
}
