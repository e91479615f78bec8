package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
)

const promptFile = "resume.json"

// Request is the input to a résumé draft.
type Request struct {
	JobTitle       string
	JobDescription string
	// Profile is any JSON-encodable description of the candidate
	Profile any
	// Style is an optional free-text theme appended to the prompt
	Style string
}

// BuildMarkdownPrompt builds the prompt for a Markdown résumé.
func BuildMarkdownPrompt(req Request) (string, error) {
	profile, err := profileJSON(req.Profile)
	if err != nil {
		return "", err
	}

	prompt, err := prompts.Render(promptFile, "markdown-resume", map[string]string{
		"JobTitle":       req.JobTitle,
		"JobDescription": req.JobDescription,
		"UserProfile":    profile,
	})
	if err != nil {
		return "", err
	}

	if style := strings.TrimSpace(req.Style); style != "" {
		suffix, err := prompts.Render(promptFile, "style-suffix", map[string]string{"Style": style})
		if err != nil {
			return "", err
		}
		prompt += suffix
	}
	return prompt, nil
}

// BuildStructuredPrompt builds the prompt for a structured JSON résumé.
func BuildStructuredPrompt(req Request) (string, error) {
	profile, err := profileJSON(req.Profile)
	if err != nil {
		return "", err
	}

	return prompts.Render(promptFile, "structured-resume", map[string]string{
		"JobTitle":       req.JobTitle,
		"JobDescription": req.JobDescription,
		"UserProfile":    profile,
		"OutputSchema":   llm.StructuredResumeSchema().Instructions(),
	})
}

// profileJSON renders the profile as indented JSON with non-ASCII text left readable.
func profileJSON(profile any) (string, error) {
	if profile == nil {
		return "{}", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profile); err != nil {
		return "", fmt.Errorf("failed to encode user profile: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
