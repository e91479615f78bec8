package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// handleListResumes lists the caller's stored résumés, default first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resumes, "")
}

// handleCreateResume stores a Markdown or structured résumé.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.CreateResumeRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	doc, err := req.Document()
	if err != nil {
		s.serviceError(w, r, &ErrValidation{Field: "content", Message: err.Error()})
		return
	}
	if doc.Format == types.FormatStructured {
		if err := schemas.ValidateStructuredResume(req.Content); err != nil {
			s.serviceError(w, r, err)
			return
		}
	}

	created, err := s.saveResume(r.Context(), userID, req.Title, doc, req.IsPublic, req.IsDefault)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created, "resume saved")
}

// saveResume encodes doc and stores it for userID.
func (s *Server) saveResume(ctx context.Context, userID uuid.UUID, title string, doc types.ResumeDocument,
	isPublic, isDefault bool) (*db.Resume, error) {
	format, content, err := types.EncodeDocument(doc)
	if err != nil {
		return nil, err
	}
	return s.store.CreateResume(ctx, &db.Resume{
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Format:    format,
		Content:   content,
		IsPublic:  isPublic,
		IsDefault: isDefault,
	})
}

// handleGetResume returns one stored résumé.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	resume, err := s.store.GetResume(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if resume == nil {
		s.serviceError(w, r, db.ErrNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume, "")
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.store.DeleteResume, "resume deleted")
}

// handleSetDefaultResume marks a résumé as the caller's default.
func (s *Server) handleSetDefaultResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.SetDefaultResume(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, nil, "default resume set")
}

// handleValidateStoredResume checks a stored résumé against a job description.
func (s *Server) handleValidateStoredResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req types.JobRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	resume, err := s.store.GetResume(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if resume == nil {
		s.serviceError(w, r, db.ErrNotFound)
		return
	}
	doc, err := types.DecodeDocument(resume.Format, resume.Content)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	jd, err := s.jobDescription(r.Context(), req.JobDescription, req.JobURL)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	findings, err := s.engine.Validate(doc, jd)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ValidateResumeResponse{Errors: nonNil(findings)}, "")
}

// jobDescription returns text when it is set and otherwise fetches the posting at url.
func (s *Server) jobDescription(ctx context.Context, text, url string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if url == "" {
		return "", nil
	}
	if s.jobs == nil {
		return "", &ErrValidation{Field: "job_url", Message: "job_url is not supported by this server"}
	}
	posting, err := s.jobs.JobDescription(ctx, url)
	if err != nil {
		return "", err
	}
	return posting.Text, nil
}

// nonNil keeps empty finding lists encoding as [] rather than null.
func nonNil(findings []string) []string {
	if findings == nil {
		return []string{}
	}
	return findings
}
