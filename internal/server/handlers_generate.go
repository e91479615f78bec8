package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/generation"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/server/middleware"
	"github.com/jonathan/resume-optimizer/internal/types"
)

const pdfFilename = "resume.pdf"

// handleGenerateResume drafts a structured résumé.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	req, genReq, userID, ok := s.prepareGeneration(w, r)
	if !ok {
		return
	}
	ctx, cancel := s.generationContext(r.Context())
	defer cancel()

	result, err := s.generator.GenerateStructured(ctx, genReq)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	resp := types.GenerateStructuredResponse{
		Resume:           result.Resume,
		ValidationErrors: nonNil(result.Findings),
	}
	if req.Save {
		saved, err := s.saveResume(r.Context(), userID, saveTitle(req), types.NewStructuredDocument(result.Resume), false, false)
		if err != nil {
			s.serviceError(w, r, err)
			return
		}
		resp.ResumeID = saved.ID.String()
	}
	s.jsonResponse(w, http.StatusOK, resp, "resume generated")
}

// handleGenerateResumeV2 drafts a Markdown résumé.
func (s *Server) handleGenerateResumeV2(w http.ResponseWriter, r *http.Request) {
	req, genReq, userID, ok := s.prepareGeneration(w, r)
	if !ok {
		return
	}
	if genReq.Style == "" && s.defaultStyle != generation.DefaultStyle {
		genReq.Style = s.defaultStyle
	}
	ctx, cancel := s.generationContext(r.Context())
	defer cancel()

	result, err := s.generator.GenerateMarkdown(ctx, genReq)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	resp := types.GenerateResumeResponse{
		ResumeMarkdown:   result.Markdown,
		ValidationErrors: nonNil(result.Findings),
		Style:            result.Style,
	}
	if req.Save {
		saved, err := s.saveResume(r.Context(), userID, saveTitle(req), types.NewMarkdownDocument(result.Markdown), false, false)
		if err != nil {
			s.serviceError(w, r, err)
			return
		}
		resp.ResumeID = saved.ID.String()
	}
	s.jsonResponse(w, http.StatusOK, resp, "resume generated")
}

// prepareGeneration decodes a generation request and resolves its job description and
// candidate profile. It writes the error response itself and reports whether to continue.
func (s *Server) prepareGeneration(w http.ResponseWriter, r *http.Request) (*types.GenerateResumeRequest, generation.Request, uuid.UUID, bool) {
	if s.generator == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "resume generation is not configured")
		return nil, generation.Request{}, uuid.Nil, false
	}

	var req types.GenerateResumeRequest
	if !s.decodeRequest(w, r, &req) {
		return nil, generation.Request{}, uuid.Nil, false
	}

	userID, authErr := middleware.GetUserID(r)
	authenticated := authErr == nil
	if req.Save && !authenticated {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required to save a resume")
		return nil, generation.Request{}, uuid.Nil, false
	}

	var profile any
	switch {
	case req.UserProfile != nil:
		profile = req.UserProfile
	case authenticated:
		stored, err := s.store.GetProfile(r.Context(), userID, false)
		if err != nil {
			s.serviceError(w, r, err)
			return nil, generation.Request{}, uuid.Nil, false
		}
		if stored == nil {
			s.serviceError(w, r, &ErrUserNotFound{UserID: userID})
			return nil, generation.Request{}, uuid.Nil, false
		}
		profile = stored
	default:
		s.serviceError(w, r, &ErrValidation{Field: "user_profile", Message: "user_profile is required when not logged in"})
		return nil, generation.Request{}, uuid.Nil, false
	}

	jd, err := s.jobDescription(r.Context(), req.JobDescription, req.JobURL)
	if err != nil {
		s.serviceError(w, r, err)
		return nil, generation.Request{}, uuid.Nil, false
	}

	logger.Ctx(r.Context()).Info().
		Str("job_title", req.JobTitle).
		Bool("authenticated", authenticated).
		Bool("from_url", req.JobDescription == "" && req.JobURL != "").
		Msg("generating resume")

	return &req, generation.Request{
		JobTitle:       req.JobTitle,
		JobDescription: jd,
		Profile:        profile,
		Style:          strings.TrimSpace(req.Style),
	}, userID, true
}

func (s *Server) generationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.llmTimeout > 0 {
		return context.WithTimeout(ctx, s.llmTimeout)
	}
	return context.WithCancel(ctx)
}

func saveTitle(req *types.GenerateResumeRequest) string {
	if t := strings.TrimSpace(req.Title); t != "" {
		return t
	}
	return req.JobTitle
}

// handleValidateResume checks a submitted résumé against a job description.
func (s *Server) handleValidateResume(w http.ResponseWriter, r *http.Request) {
	var req types.ValidateResumeRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	jd, err := s.jobDescription(r.Context(), req.JobDescription, req.JobURL)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	findings, err := s.engine.Validate(req.Document(), jd)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ValidateResumeResponse{Errors: nonNil(findings)}, "")
}

// handleRenderHTML renders Markdown as a themed HTML page.
func (s *Server) handleRenderHTML(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if req.ResumeMarkdown == "" {
		s.errorResponse(w, http.StatusBadRequest, "missing required field: resume_markdown")
		return
	}
	html, theme, err := s.renderer.HTML(req.ResumeMarkdown, req.ThemeName(s.defaultTheme))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.RenderResponse{HTML: html, Style: string(theme)}, "")
}

// handleResumePDF prints Markdown or ready HTML to a PDF attachment.
func (s *Server) handleResumePDF(w http.ResponseWriter, r *http.Request) {
	if s.pdf == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "PDF export is not configured")
		return
	}
	var req types.RenderRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.serviceError(w, r, err)
		return
	}

	html := req.HTML
	if req.ResumeMarkdown != "" {
		var err error
		html, _, err = s.renderer.HTML(req.ResumeMarkdown, req.ThemeName(s.defaultTheme))
		if err != nil {
			s.serviceError(w, r, err)
			return
		}
	}

	pdf, err := s.pdf.PDF(r.Context(), html)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+pdfFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("failed to write PDF response")
	}
}
