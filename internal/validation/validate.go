package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

const (
	// unnamedExperience labels an experience entry without title or position
	unnamedExperience = "Unnamed experience"
	// tooLongMessage is reported when a résumé exceeds its length budget
	tooLongMessage = "Resume too long; should fit one page"
	// lowQuantificationMessage is reported when too few bullets carry a metric
	lowQuantificationMessage = "Insufficient quantified results: add concrete numbers or percentages to bullet points"
)

// Options tunes the checks. Zero fields take their value from DefaultOptions.
type Options struct {
	StructuredMaxWords   int       `json:"structured_max_words,omitempty"`
	MarkdownMaxWords     int       `json:"markdown_max_words,omitempty"`
	MaxKeywordHints      int       `json:"max_keyword_hints,omitempty"`
	MinBulletMetricRatio float64   `json:"min_bullet_metric_ratio,omitempty"`
	MetricWords          []string  `json:"metric_words,omitempty"`
	RequiredKeys         []string  `json:"required_keys,omitempty"`
	MarkdownSections     []Section `json:"markdown_sections,omitempty"`
}

// DefaultOptions returns the standard one-page thresholds.
func DefaultOptions() *Options {
	return &Options{
		StructuredMaxWords:   700,
		MarkdownMaxWords:     900, // Markdown syntax inflates the raw text
		MaxKeywordHints:      8,
		MinBulletMetricRatio: 0.5,
		MetricWords:          DefaultMetricWords,
		RequiredKeys:         DefaultRequiredKeys(),
		MarkdownSections:     DefaultMarkdownSections(),
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.StructuredMaxWords == 0 {
		o.StructuredMaxWords = d.StructuredMaxWords
	}
	if o.MarkdownMaxWords == 0 {
		o.MarkdownMaxWords = d.MarkdownMaxWords
	}
	if o.MaxKeywordHints == 0 {
		o.MaxKeywordHints = d.MaxKeywordHints
	}
	if o.MinBulletMetricRatio == 0 {
		o.MinBulletMetricRatio = d.MinBulletMetricRatio
	}
	if o.MetricWords == nil {
		o.MetricWords = d.MetricWords
	}
	if o.RequiredKeys == nil {
		o.RequiredKeys = d.RequiredKeys
	}
	if o.MarkdownSections == nil {
		o.MarkdownSections = d.MarkdownSections
	}
	return o
}

// Engine runs the résumé checks. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	opts    Options
	metrics *MetricDetector
}

// NewEngine creates an Engine. A nil opts uses DefaultOptions.
func NewEngine(opts *Options) *Engine {
	var o Options
	if opts != nil {
		o = *opts
	}
	o = o.withDefaults()
	return &Engine{
		opts:    o,
		metrics: NewMetricDetector(o.MetricWords),
	}
}

// Options returns a copy of the engine's effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Validate dispatches to the validator matching the document's variant.
func (e *Engine) Validate(doc types.ResumeDocument, jobDescription string) ([]string, error) {
	switch doc.Format {
	case types.FormatStructured:
		return e.ValidateStructured(doc.Structured, jobDescription)
	case types.FormatMarkdown:
		return e.ValidateMarkdown(doc.Markdown, jobDescription), nil
	case "":
		if doc.Structured != nil && doc.Markdown == "" {
			return e.ValidateStructured(doc.Structured, jobDescription)
		}
		if doc.Structured == nil {
			return e.ValidateMarkdown(doc.Markdown, jobDescription), nil
		}
		return nil, &InputShapeError{Field: "document", Expected: "exactly one of markdown or structured", Got: "both"}
	default:
		return nil, &InputShapeError{Field: "format", Expected: `"markdown" or "structured"`, Got: string(doc.Format)}
	}
}

// keywordFinding reports job keywords missing from have, or "" if none are missing.
func (e *Engine) keywordFinding(jobDescription string, have KeywordSet) string {
	missing := MissingKeywords(ExtractKeywords(jobDescription), have)
	if len(missing) == 0 {
		return ""
	}
	if len(missing) > e.opts.MaxKeywordHints {
		missing = missing[:e.opts.MaxKeywordHints]
	}
	return fmt.Sprintf("Consider adding job description keywords: %s", strings.Join(missing, ", "))
}

func missingSection(name string) string {
	return fmt.Sprintf("Missing required section: %s", name)
}

var defaultEngine = NewEngine(nil)

// ValidateStructured checks a structured résumé with the default options.
func ValidateStructured(resume types.StructuredResume, jobDescription string) ([]string, error) {
	return defaultEngine.ValidateStructured(resume, jobDescription)
}

// ValidateMarkdown checks a Markdown résumé with the default options.
func ValidateMarkdown(markdown, jobDescription string) []string {
	return defaultEngine.ValidateMarkdown(markdown, jobDescription)
}

// Validate checks either résumé variant with the default options.
func Validate(doc types.ResumeDocument, jobDescription string) ([]string, error) {
	return defaultEngine.Validate(doc, jobDescription)
}
