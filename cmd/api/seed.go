package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tripmate/cmd/app"
	"tripmate/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Register demo accounts and follow edges from a YAML fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.JWTSecretKey == "" {
			return errors.New("JWT_SECRET_KEY is not set")
		}

		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("open fixture: %w", err)
		}
		defer f.Close()

		fx, err := seed.Load(f)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := seed.Apply(cmd.Context(), a.Services, fx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "users created: %d, skipped: %d, follows: %d\n",
			report.Created, report.Skipped, report.Follows)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "seeds/demo.yaml", "Path to the YAML fixture")
}
