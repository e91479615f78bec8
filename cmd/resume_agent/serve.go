package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/server"
)

func newServeCmd(opts *cliOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: "Start an HTTP server that exposes the account, profile, résumé, generation, " +
			"validation and rendering endpoints. Requires DATABASE_URL and JWT_SECRET; " +
			"generation is disabled without GEMINI_API_KEY.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			srv, err := server.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides config and PORT)")
	return cmd
}
