// Package cli wires the CRM service together behind cobra commands.
package cli

import (
	"fmt"
	"os"

	"github.com/mrops-br/crm-api/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "crm-api",
	Short: "CRM data service",
	Long: `CRM data service for customers, products and orders.

Exposes a GraphQL API at /graphql and REST routes alongside it, and runs the
heartbeat and weekly report jobs in the background.

Examples:
  crm-api serve                          # API plus scheduled jobs
  crm-api serve --store sqlite --dsn crm.db
  crm-api heartbeat                      # Record one heartbeat and exit
  crm-api report                         # Write one CRM report and exit`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := os.Setenv("CRM_CONFIG_FILE", configFile); err != nil {
				return err
			}
		}

		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.OTLP.LogLevel = logLevel
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file (overrides CRM_CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
}
