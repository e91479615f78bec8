package validation

import "strings"

// ValidateMarkdown checks a Markdown résumé against a job description.
// Findings are ordered: missing sections, bullet quantification, keyword coverage, length.
func (e *Engine) ValidateMarkdown(markdown, jobDescription string) []string {
	findings := []string{}

	titles := headingTitles(markdown)
	for _, section := range e.opts.MarkdownSections {
		if !section.present(titles) {
			findings = append(findings, missingSection(section.Name))
		}
	}

	// A résumé without bullets is already covered by the section checks.
	bullets, quantified := 0, 0
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") {
			continue
		}
		bullets++
		if e.metrics.Contains(line) {
			quantified++
		}
	}
	if bullets > 0 && float64(quantified)/float64(bullets) < e.opts.MinBulletMetricRatio {
		findings = append(findings, lowQuantificationMessage)
	}

	if f := e.keywordFinding(jobDescription, NewKeywordSet(ExtractKeywords(markdown))); f != "" {
		findings = append(findings, f)
	}

	if WordCount(markdown) > e.opts.MarkdownMaxWords {
		findings = append(findings, tooLongMessage)
	}

	return findings
}
