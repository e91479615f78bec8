package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenerateResumeRequest asks for a résumé tailored to a job. When UserProfile is nil the
// caller's stored profile is used.
type GenerateResumeRequest struct {
	JobTitle       string         `json:"job_title" validate:"required"`
	JobDescription string         `json:"job_description,omitempty" validate:"required_without=JobURL"`
	JobURL         string         `json:"job_url,omitempty" validate:"omitempty,url"`
	UserProfile    map[string]any `json:"user_profile,omitempty"`
	Style          string         `json:"style,omitempty"`
	Save           bool           `json:"save,omitempty"`  // store the result as a résumé
	Title          string         `json:"title,omitempty"` // title when saving
}

// GenerateResumeResponse carries a Markdown résumé and its findings.
type GenerateResumeResponse struct {
	ResumeMarkdown   string   `json:"resume_markdown"`
	ValidationErrors []string `json:"validation_errors"`
	Style            string   `json:"style"`
	ResumeID         string   `json:"resume_id,omitempty"`
}

// GenerateStructuredResponse carries a structured résumé and its findings.
type GenerateStructuredResponse struct {
	Resume           StructuredResume `json:"resume"`
	ValidationErrors []string         `json:"validation_errors"`
	ResumeID         string           `json:"resume_id,omitempty"`
}

// ValidateResumeRequest checks a Markdown or structured résumé against a job description.
type ValidateResumeRequest struct {
	ResumeMarkdown string           `json:"resume_markdown,omitempty"`
	Resume         StructuredResume `json:"resume,omitempty"`
	JobDescription string           `json:"job_description,omitempty" validate:"required_without=JobURL"`
	JobURL         string           `json:"job_url,omitempty" validate:"omitempty,url"`
}

// ValidateResumeResponse lists the findings.
type ValidateResumeResponse struct {
	Errors []string `json:"errors"`
}

// JobRequest supplies a job description for a stored résumé check.
type JobRequest struct {
	JobDescription string `json:"job_description,omitempty" validate:"required_without=JobURL"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
}

// RenderRequest renders Markdown (or ready HTML for PDF output) with a theme. Theme is
// accepted as an alias of Style.
type RenderRequest struct {
	ResumeMarkdown string `json:"resume_markdown,omitempty"`
	HTML           string `json:"html,omitempty"`
	Theme          string `json:"theme,omitempty"`
	Style          string `json:"style,omitempty"`
}

// RenderResponse carries rendered HTML.
type RenderResponse struct {
	HTML  string `json:"html"`
	Style string `json:"style"`
}

// Validate validates the GenerateResumeRequest using the validator.
func (r *GenerateResumeRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the ValidateResumeRequest and requires exactly one résumé variant.
func (r *ValidateResumeRequest) Validate() error {
	hasMarkdown := strings.TrimSpace(r.ResumeMarkdown) != ""
	hasStructured := r.Resume != nil
	if hasMarkdown == hasStructured {
		return &RequestError{Message: "provide exactly one of resume_markdown or resume"}
	}
	return ValidationMessage(validate.Struct(r))
}

// Document returns the résumé variant carried by the request.
func (r *ValidateResumeRequest) Document() ResumeDocument {
	if r.Resume != nil {
		return NewStructuredDocument(r.Resume)
	}
	return NewMarkdownDocument(r.ResumeMarkdown)
}

// Validate validates the JobRequest using the validator.
func (r *JobRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate requires Markdown or HTML input.
func (r *RenderRequest) Validate() error {
	if r.ResumeMarkdown == "" && r.HTML == "" {
		return &RequestError{Message: "missing required field: resume_markdown or html"}
	}
	return nil
}

// ThemeName returns Style, falling back to Theme and then def.
func (r *RenderRequest) ThemeName(def string) string {
	if r.Style != "" {
		return r.Style
	}
	if r.Theme != "" {
		return r.Theme
	}
	return def
}

// DecodeDocument decodes stored résumé content. A JSON string is Markdown and a JSON object
// is a structured résumé; format, when set, must agree with the content.
func DecodeDocument(format string, content json.RawMessage) (ResumeDocument, error) {
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return ResumeDocument{}, fmt.Errorf("resume content is empty")
	}

	switch trimmed[0] {
	case '"':
		if format != "" && format != string(FormatMarkdown) {
			return ResumeDocument{}, fmt.Errorf("format %q requires a JSON object as content", format)
		}
		var md string
		if err := json.Unmarshal(content, &md); err != nil {
			return ResumeDocument{}, fmt.Errorf("failed to decode markdown content: %w", err)
		}
		return NewMarkdownDocument(md), nil
	case '{':
		if format != "" && format != string(FormatStructured) {
			return ResumeDocument{}, fmt.Errorf("format %q requires a JSON string as content", format)
		}
		resume, err := ParseStructuredResume(content)
		if err != nil {
			return ResumeDocument{}, err
		}
		return NewStructuredDocument(resume), nil
	default:
		return ResumeDocument{}, fmt.Errorf("resume content must be a JSON string or object")
	}
}

// EncodeDocument returns the format name and JSON content for storing doc.
func EncodeDocument(doc ResumeDocument) (string, json.RawMessage, error) {
	if doc.Format == FormatStructured {
		b, err := json.Marshal(doc.Structured)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode structured resume: %w", err)
		}
		return string(FormatStructured), b, nil
	}
	b, err := json.Marshal(doc.Markdown)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode markdown resume: %w", err)
	}
	return string(FormatMarkdown), b, nil
}
