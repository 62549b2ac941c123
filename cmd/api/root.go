package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tripmate/internal/config"
	"tripmate/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tripmate",
	Short: "TripMate social travel API",
	Long: `TripMate serves the social travel API: accounts, follows, posts,
feeds, notifications and organizer trips.

Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.LoadConfig()
		logger.Init(cfg.LogLevel, cfg.LogJSON)
	},
	RunE: runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(seedCmd)
}
