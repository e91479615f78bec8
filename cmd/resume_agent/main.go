// Package main provides the resume_agent command: the résumé optimizer HTTP API server and
// command-line tools for validating, generating and rendering résumés.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/logger"
)

// cliOptions holds the persistent flags and the configuration loaded from them.
type cliOptions struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   "resume_agent",
		Short: "AI résumé optimizer",
		Long: "Generates résumés tailored to a job description with a language model, checks them " +
			"against a fixed quality checklist and renders them to HTML or PDF.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.verbose && cfg.Logger.Level == "info" {
				cfg.Logger.Level = "debug"
			}
			logger.Init(cfg.Logger)
			opts.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed output")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newValidateCmd(opts),
		newGenerateCmd(opts),
		newRenderCmd(opts),
	)
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
