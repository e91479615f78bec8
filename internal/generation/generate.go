// Package generation drafts résumés with a language model and checks them with the
// validation engine.
package generation

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

// DefaultMaxConcurrent bounds in-flight model calls when no limit is configured.
const DefaultMaxConcurrent int64 = 4

// DefaultStyle is reported when a request names no style.
const DefaultStyle = "default"

// MarkdownResult is a generated Markdown résumé and its findings.
type MarkdownResult struct {
	Markdown string
	Findings []string
	Style    string
}

// StructuredResult is a generated structured résumé and its findings.
type StructuredResult struct {
	Resume   types.StructuredResume
	Findings []string
}

// Service produces résumé drafts. It is safe for concurrent use.
type Service struct {
	client llm.Client
	engine *validation.Engine
	tier   llm.ModelTier
	sem    *semaphore.Weighted
}

// NewService creates a Service. A nil engine uses the default thresholds and a
// non-positive maxConcurrent uses DefaultMaxConcurrent.
func NewService(client llm.Client, engine *validation.Engine, tier llm.ModelTier, maxConcurrent int64) *Service {
	if engine == nil {
		engine = validation.NewEngine(nil)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if tier == "" {
		tier = llm.TierStandard
	}
	return &Service{
		client: client,
		engine: engine,
		tier:   tier,
		sem:    semaphore.NewWeighted(maxConcurrent),
	}
}

// Engine returns the validation engine used to check drafts.
func (s *Service) Engine() *validation.Engine {
	return s.engine
}

// GenerateMarkdown drafts a Markdown résumé and validates it against the job description.
func (s *Service) GenerateMarkdown(ctx context.Context, req Request) (*MarkdownResult, error) {
	prompt, err := BuildMarkdownPrompt(req)
	if err != nil {
		return nil, &Error{Message: "failed to build prompt", Cause: err}
	}
	system, err := prompts.Get(promptFile, "system-markdown")
	if err != nil {
		return nil, &Error{Message: "failed to load system prompt", Cause: err}
	}

	text, err := s.call(ctx, func(ctx context.Context) (string, error) {
		return s.client.GenerateContent(ctx, system, prompt, s.tier)
	})
	if err != nil {
		return nil, err
	}

	markdown := llm.StripCodeFence(text)
	if markdown == "" {
		return nil, &Error{Message: "model returned an empty resume"}
	}

	style := strings.TrimSpace(req.Style)
	if style == "" {
		style = DefaultStyle
	}

	return &MarkdownResult{
		Markdown: markdown,
		Findings: s.engine.ValidateMarkdown(markdown, req.JobDescription),
		Style:    style,
	}, nil
}

// GenerateStructured drafts a structured résumé and validates it against the job description.
func (s *Service) GenerateStructured(ctx context.Context, req Request) (*StructuredResult, error) {
	prompt, err := BuildStructuredPrompt(req)
	if err != nil {
		return nil, &Error{Message: "failed to build prompt", Cause: err}
	}
	system, err := prompts.Get(promptFile, "system-structured")
	if err != nil {
		return nil, &Error{Message: "failed to load system prompt", Cause: err}
	}

	text, err := s.call(ctx, func(ctx context.Context) (string, error) {
		return s.client.GenerateJSON(ctx, system, prompt, s.tier)
	})
	if err != nil {
		return nil, err
	}

	raw := llm.CleanJSONBlock(text)
	if err := schemas.ValidateStructuredResume([]byte(raw)); err != nil {
		return nil, &ParseError{Message: "model response is not a structured resume", Raw: text, Cause: err}
	}
	resume, err := types.ParseStructuredResume([]byte(raw))
	if err != nil {
		return nil, &ParseError{Message: "model response is not a structured resume", Raw: text, Cause: err}
	}

	findings, err := s.engine.ValidateStructured(resume, req.JobDescription)
	if err != nil {
		return nil, &ParseError{Message: "model response has an unexpected shape", Raw: text, Cause: err}
	}

	return &StructuredResult{Resume: resume, Findings: findings}, nil
}

// call runs fn while holding one slot of the concurrency limit.
func (s *Service) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", &Error{Message: "waiting for a model slot", Cause: err}
	}
	defer s.sem.Release(1)

	start := time.Now()
	text, err := fn(ctx)
	log := logger.Ctx(ctx)
	if err != nil {
		log.Error().Err(err).Str("model", s.client.GetModel(s.tier)).Dur("elapsed", time.Since(start)).Msg("resume generation failed")
		return "", &Error{Message: "language model call failed", Cause: err}
	}
	log.Info().Str("model", s.client.GetModel(s.tier)).Dur("elapsed", time.Since(start)).Int("chars", len(text)).Msg("resume generated")
	return text, nil
}
