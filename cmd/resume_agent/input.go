package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/fetch"
	"github.com/jonathan/resume-optimizer/internal/observability"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// jobFlags selects where a job description comes from.
type jobFlags struct {
	file string
	url  string
	text string
}

func (j *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&j.file, "jd", "", "Path to a job description text file")
	cmd.Flags().StringVar(&j.url, "jd-url", "", "URL of a job posting to fetch")
	cmd.Flags().StringVar(&j.text, "jd-text", "", "Job description text")
}

// resolve returns the job description text. At most one source may be set; none yields "".
func (j *jobFlags) resolve(ctx context.Context, useBrowser bool, printer *observability.Printer) (string, error) {
	set := 0
	for _, v := range []string{j.file, j.url, j.text} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return "", fmt.Errorf("use only one of --jd, --jd-url and --jd-text")
	}

	switch {
	case j.text != "":
		return j.text, nil
	case j.file != "":
		data, err := os.ReadFile(j.file)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return string(data), nil
	case j.url != "":
		var browser fetch.Renderer
		if useBrowser {
			browser = fetch.NewChromeRenderer()
		}
		posting, err := fetch.NewJobFetcher(nil, browser).JobDescription(ctx, j.url)
		if err != nil {
			return "", err
		}
		if printer != nil {
			printer.PrintJobPosting(posting)
		}
		return posting.Text, nil
	}
	return "", nil
}

// readResume loads a résumé file. JSON files hold a structured résumé; anything else is
// Markdown. "-" reads Markdown from stdin.
func readResume(path string, stdin io.Reader) (types.ResumeDocument, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return types.ResumeDocument{}, fmt.Errorf("failed to read resume: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		resume, err := types.ParseStructuredResume(data)
		if err != nil {
			return types.ResumeDocument{}, err
		}
		return types.NewStructuredDocument(resume), nil
	}
	return types.NewMarkdownDocument(string(data)), nil
}

// readProfile loads a candidate profile JSON object.
func readProfile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile map[string]any
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile %s must be a JSON object", path)
	}
	return profile, nil
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
