package types

import (
	"encoding/json"
	"fmt"
)

// DocumentFormat identifies which variant of a ResumeDocument is populated.
type DocumentFormat string

const (
	// FormatMarkdown is a free-text résumé with Markdown section headings
	FormatMarkdown DocumentFormat = "markdown"
	// FormatStructured is a résumé represented as a mapping of recognized keys
	FormatStructured DocumentFormat = "structured"
)

// StructuredResume is a résumé decoded from JSON.
// Recognized keys: contact, summary, experience, education, skills, projects.
// Values keep their decoded JSON types so that emptiness checks see exactly what the
// producer emitted.
type StructuredResume map[string]any

// ResumeDocument holds exactly one résumé variant.
type ResumeDocument struct {
	Format     DocumentFormat   `json:"format"`
	Markdown   string           `json:"markdown,omitempty"`
	Structured StructuredResume `json:"structured,omitempty"`
}

// NewMarkdownDocument wraps Markdown text as a ResumeDocument.
func NewMarkdownDocument(markdown string) ResumeDocument {
	return ResumeDocument{Format: FormatMarkdown, Markdown: markdown}
}

// NewStructuredDocument wraps a structured résumé as a ResumeDocument.
func NewStructuredDocument(resume StructuredResume) ResumeDocument {
	return ResumeDocument{Format: FormatStructured, Structured: resume}
}

// ParseStructuredResume decodes a JSON object into a StructuredResume.
func ParseStructuredResume(data []byte) (StructuredResume, error) {
	var resume StructuredResume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to parse structured resume: %w", err)
	}
	if resume == nil {
		return nil, fmt.Errorf("structured resume must be a JSON object")
	}
	return resume, nil
}
