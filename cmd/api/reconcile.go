package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tripmate/internal/database"
	"tripmate/internal/repository"
	"tripmate/internal/service"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute follower, like and comment counters from the source tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.ConnectDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.CloseDB()

		report, err := service.NewCounterService(repository.NewCounterRepository(db.DB)).Reconcile(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "followers: %d rows corrected\n", report.Followers)
		fmt.Fprintf(out, "following: %d rows corrected\n", report.Following)
		fmt.Fprintf(out, "likes:     %d rows corrected\n", report.Likes)
		fmt.Fprintf(out, "comments:  %d rows corrected\n", report.Comments)
		fmt.Fprintf(out, "total:     %d\n", report.Total())
		return nil
	},
}
