package main

import (
	"github.com/spf13/cobra"

	"tripmate/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.ConnectDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.CloseDB()

		return db.RunMigrations(cmd.Context())
	},
}
