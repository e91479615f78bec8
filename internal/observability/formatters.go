// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jonathan/resume-optimizer/internal/fetch"
	"github.com/jonathan/resume-optimizer/internal/generation"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out   io.Writer
	box   lipgloss.Style
	title lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out: out,
		box: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			Padding(0, 1).
			Width(boxWidth - 2),
		title: lipgloss.NewStyle().Bold(true),
	}
}

// truncate shortens s to width terminal cells, counting wide characters as two.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = truncate(line, inner)
	}

	body := p.title.Render(title) + "\n\n" + strings.Join(lines, "\n")
	fmt.Fprintln(p.out, p.box.Render(body))
}

// PrintFindings outputs validation findings as a numbered list.
func (p *Printer) PrintFindings(findings []string) {
	if len(findings) == 0 {
		p.printBox("VALIDATION", "✅ No issues found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d issues:\n\n", len(findings)))
	for i, finding := range findings {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, finding))
		if i < len(findings)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("VALIDATION FINDINGS", sb.String())
}

// PrintMarkdownResult outputs a summary of a generated Markdown résumé.
func (p *Printer) PrintMarkdownResult(result *generation.MarkdownResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Style:    %s\n", result.Style))
	sb.WriteString(fmt.Sprintf("Length:   %d words\n", validation.WordCount(result.Markdown)))
	sb.WriteString(fmt.Sprintf("Findings: %d\n", len(result.Findings)))

	headings := markdownHeadings(result.Markdown)
	if len(headings) > 0 {
		sb.WriteString("\nSections:\n")
		for _, h := range headings {
			sb.WriteString(fmt.Sprintf("  • %s\n", h))
		}
	}

	p.printBox("GENERATED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobPosting outputs where a job description came from and how it starts.
func (p *Printer) PrintJobPosting(posting *fetch.JobPosting) {
	if posting == nil {
		return
	}

	source := "fetched"
	switch {
	case posting.FromCache:
		source = "cache"
	case posting.Rendered:
		source = "browser"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:      %s\n", posting.URL))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", posting.Platform))
	sb.WriteString(fmt.Sprintf("Source:   %s\n", source))
	sb.WriteString(fmt.Sprintf("Length:   %d chars\n", len([]rune(posting.Text))))

	lines := strings.Split(posting.Text, "\n")
	if len(lines) > 0 && lines[0] != "" {
		sb.WriteString("\n")
		count := min(len(lines), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(lines[i] + "\n")
		}
		if len(lines) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-maxItemsToShow))
		}
	}

	p.printBox("JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// markdownHeadings returns the text of ## and ### headings in order.
func markdownHeadings(markdown string) []string {
	var headings []string
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		for _, prefix := range []string{"### ", "## "} {
			if strings.HasPrefix(line, prefix) {
				headings = append(headings, strings.TrimSpace(strings.TrimPrefix(line, prefix)))
				break
			}
		}
	}
	return headings
}
