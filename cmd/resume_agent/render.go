package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/rendering"
)

func newRenderCmd(opts *cliOptions) *cobra.Command {
	var (
		inPath       string
		outPath      string
		theme        string
		templatePath string
		pdf          bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a Markdown résumé to HTML or PDF",
		Long: "Converts a Markdown résumé into a themed HTML page, or a PDF with --pdf. PDF output " +
			"needs Chrome or Chromium installed.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pdf && outPath == "" {
				return fmt.Errorf("--out is required with --pdf")
			}

			var markdown []byte
			var err error
			if inPath == "-" {
				markdown, err = io.ReadAll(cmd.InOrStdin())
			} else {
				markdown, err = os.ReadFile(inPath)
			}
			if err != nil {
				return fmt.Errorf("failed to read resume: %w", err)
			}

			renderer := rendering.NewRenderer()
			if templatePath != "" {
				renderer, err = rendering.NewRendererFromFile(templatePath)
				if err != nil {
					return err
				}
			}

			if theme == "" {
				theme = opts.cfg.Generation.DefaultTheme
			}
			if _, ok := rendering.ParseTheme(theme); !ok {
				logger.Warn().Str("theme", theme).Str("fallback", string(rendering.DefaultTheme)).Msg("unknown theme")
			}

			html, applied, err := renderer.HTML(string(markdown), theme)
			if err != nil {
				return err
			}
			logger.Debug().Str("theme", string(applied)).Int("bytes", len(html)).Msg("rendered HTML")

			if !pdf {
				return writeOutput(cmd.OutOrStdout(), outPath, []byte(html))
			}

			data, err := rendering.NewChromePDF().PDF(cmd.Context(), html)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), outPath, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", outPath, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Path to the Markdown résumé (- for stdin)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout; required with --pdf)")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme: classic, modern or minimalist")
	cmd.Flags().StringVar(&templatePath, "template", "", "Custom HTML page template")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "Write PDF instead of HTML")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
