package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// ValidateStructured checks a structured résumé against a job description.
// Findings are ordered: missing sections, unquantified experience, keyword coverage, length.
// The only error is *InputShapeError, returned when experience or projects is not a
// list of objects.
func (e *Engine) ValidateStructured(resume types.StructuredResume, jobDescription string) ([]string, error) {
	experience, err := entries(resume, "experience")
	if err != nil {
		return nil, err
	}
	projects, err := entries(resume, "projects")
	if err != nil {
		return nil, err
	}

	findings := []string{}

	for _, key := range e.opts.RequiredKeys {
		if !truthy(resume[key]) {
			findings = append(findings, missingSection(key))
		}
	}

	for _, exp := range experience {
		desc := exp["description"]
		if !truthy(desc) {
			desc = exp["achievements"]
		}
		if e.metrics.Contains(textOf(desc)) {
			continue
		}
		title := unnamedExperience
		if truthy(exp["title"]) {
			title = textOf(exp["title"])
		} else if truthy(exp["position"]) {
			title = textOf(exp["position"])
		}
		findings = append(findings, fmt.Sprintf("Experience '%s' lacks a quantified result", title))
	}

	if f := e.keywordFinding(jobDescription, NewKeywordSet(stringList(resume["skills"]))); f != "" {
		findings = append(findings, f)
	}

	fields := []string{textOf(resume["summary"])}
	for _, exp := range experience {
		fields = append(fields, textOf(exp["description"]), textOf(exp["achievements"]))
	}
	for _, proj := range projects {
		fields = append(fields, textOf(proj["description"]), textOf(proj["results"]))
	}
	if WordCount(strings.Join(fields, "\n")) > e.opts.StructuredMaxWords {
		findings = append(findings, tooLongMessage)
	}

	return findings, nil
}
