package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/lanshare/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "lanshare",
	Short:   "Share files with devices on the local network",
	Long: `lanshare serves a set of local files over HTTP to browsers and
other devices on the same network, optionally behind Basic auth.

Shared paths are remembered in a small catalog database so they are
served again after a restart.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path, repeatable (default: ./lanshare.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "catalog database type: sqlite, postgres (env: LANSHARE_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "catalog connection string (default: lanshare.db, env: LANSHARE_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
