// Package cmd holds the styleshop command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"styleshop/internal/config"
	"styleshop/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "styleshop",
	Short: "StyleShop fashion storefront API",
	Long: `StyleShop serves the storefront API: catalog, cart, checkout, orders,
wishlist, saved outfits and AI styling.

Commands:
  serve    - run the HTTP API
  worker   - consume order events and send confirmation emails
  seed     - load the default catalog and rebuild the search index
  migrate  - create or update the database schema`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, workerCmd, seedCmd, migrateCmd)
}

// setup loads configuration and the process logger.
func setup() (*config.Config, *logrus.Logger) {
	cfg := config.Load()
	return cfg, logging.New(cfg.AppName, cfg.Env)
}
