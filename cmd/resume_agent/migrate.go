package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/logger"
)

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: fmt.Sprintf("Applies the embedded schema to DATABASE_URL. With --seed, inserts two demo "+
			"accounts (password %q) with sample profiles when the database has no users.", db.SeedPassword),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			ctx := cmd.Context()

			database, err := db.Connect(ctx, opts.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.Migrate(ctx); err != nil {
				return err
			}
			logger.Info().Msg("schema applied")
			if !seed {
				return nil
			}

			passwords, err := config.NewPasswordConfig()
			if err != nil {
				return err
			}
			result, err := database.Seed(ctx, passwords.HashPassword)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Skipped {
				fmt.Fprintln(out, "Database already has users; seed skipped")
				return nil
			}
			fmt.Fprintf(out, "Seeded users %v (password %q): %d work experiences, %d education, %d skills, %d resumes\n",
				result.Users, db.SeedPassword, result.WorkExperiences, result.Education, result.Skills, result.Resumes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Insert demo users and profiles")
	return cmd
}
