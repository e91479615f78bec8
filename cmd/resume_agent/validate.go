package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

// errFindings is returned by validate --strict when the résumé has findings.
var errFindings = errors.New("resume has validation findings")

func newValidateCmd(opts *cliOptions) *cobra.Command {
	var (
		resumePath string
		strict     bool
		job        jobFlags
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a résumé against a job description",
		Long: "Runs the résumé checklist (required sections, quantified results, keyword coverage " +
			"and length) on a Markdown or structured JSON résumé and prints the findings as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var printer *observability.Printer
			if opts.verbose {
				printer = observability.NewPrinter(cmd.ErrOrStderr())
			}

			doc, err := readResume(resumePath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			jd, err := job.resolve(cmd.Context(), opts.cfg.Generation.UseBrowser, printer)
			if err != nil {
				return err
			}

			findings, err := validation.NewEngine(&opts.cfg.Validation).Validate(doc, jd)
			if err != nil {
				return err
			}
			if findings == nil {
				findings = []string{}
			}
			if printer != nil {
				printer.PrintFindings(findings)
			}

			out, err := json.MarshalIndent(types.ValidateResumeResponse{Errors: findings}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if strict && len(findings) > 0 {
				return errFindings
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&resumePath, "resume", "r", "", "Path to the résumé (.md, or .json for structured; - for stdin)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when there are findings")
	job.register(cmd)
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
