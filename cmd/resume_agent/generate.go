package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/generation"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/server"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

func newGenerateCmd(opts *cliOptions) *cobra.Command {
	var (
		profilePath string
		jobTitle    string
		style       string
		structured  bool
		outPath     string
		job         jobFlags
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a résumé for a job with the language model",
		Long: "Drafts a résumé from a candidate profile JSON file and a job description, checks it " +
			"and writes Markdown (or structured JSON with --structured). Requires GEMINI_API_KEY.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY is required for generation")
			}

			var printer *observability.Printer
			if opts.verbose {
				printer = observability.NewPrinter(cmd.ErrOrStderr())
			}

			profile, err := readProfile(profilePath)
			if err != nil {
				return err
			}
			jd, err := job.resolve(cmd.Context(), cfg.Generation.UseBrowser, printer)
			if err != nil {
				return err
			}
			if jd == "" {
				return fmt.Errorf("a job description is required: use --jd, --jd-url or --jd-text")
			}

			client, err := server.NewLLMClient(cmd.Context(), cfg.LLM)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			tier, err := llm.ParseTier(cfg.LLM.Tier)
			if err != nil {
				return err
			}
			svc := generation.NewService(client, validation.NewEngine(&cfg.Validation), tier, cfg.Generation.MaxConcurrent)

			ctx := cmd.Context()
			if cfg.LLM.TimeoutSeconds > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)
				defer cancel()
			}

			req := generation.Request{JobTitle: jobTitle, JobDescription: jd, Profile: profile, Style: style}
			if structured {
				result, err := svc.GenerateStructured(ctx, req)
				if err != nil {
					return err
				}
				reportFindings(printer, result.Findings)
				data, err := json.MarshalIndent(result.Resume, "", "  ")
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), outPath, append(data, '\n'))
			}

			result, err := svc.GenerateMarkdown(ctx, req)
			if err != nil {
				return err
			}
			if printer != nil {
				printer.PrintMarkdownResult(result)
			}
			reportFindings(printer, result.Findings)
			return writeOutput(cmd.OutOrStdout(), outPath, []byte(result.Markdown+"\n"))
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to the candidate profile JSON file")
	cmd.Flags().StringVarP(&jobTitle, "title", "t", "", "Target job title")
	cmd.Flags().StringVar(&style, "style", "", "Optional style hint for the résumé")
	cmd.Flags().BoolVar(&structured, "structured", false, "Produce a structured JSON résumé instead of Markdown")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	job.register(cmd)
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// reportFindings prints findings in verbose mode and logs them otherwise.
func reportFindings(printer *observability.Printer, findings []string) {
	if printer != nil {
		printer.PrintFindings(findings)
		return
	}
	for _, f := range findings {
		logger.Warn().Str("finding", f).Msg("generated resume has a validation finding")
	}
}
