package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// handleGetProfile returns the caller's account and every profile collection.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	profile, err := s.store.GetProfile(r.Context(), userID, true)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if profile == nil {
		s.serviceError(w, r, &ErrUserNotFound{UserID: userID})
		return
	}
	s.jsonResponse(w, http.StatusOK, profile, "")
}

// handleUpdateProfile changes the caller's account details.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.UpdateProfileRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	user, err := s.userService.UpdateAccount(r.Context(), userID, &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, user, "profile updated")
}

// -----------------------------------------------------------------------------
// Work experiences
// -----------------------------------------------------------------------------

func (s *Server) handleListWorkExperiences(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	items, err := s.store.ListWorkExperiences(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, items, "")
}

func (s *Server) handleCreateWorkExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.CreateWorkExperienceRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	created, err := s.store.CreateWorkExperience(r.Context(), &db.WorkExperience{
		UserID:       userID,
		Company:      strings.TrimSpace(req.Company),
		Position:     strings.TrimSpace(req.Position),
		StartDate:    start,
		EndDate:      end,
		IsCurrent:    req.IsCurrent,
		Description:  req.Description,
		Achievements: req.Achievements,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created, "work experience added")
}

func (s *Server) handleUpdateWorkExperience(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req types.UpdateWorkExperienceRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	existing, err := s.store.GetWorkExperience(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if existing == nil {
		s.serviceError(w, r, db.ErrNotFound)
		return
	}

	if err := applyWorkExperienceUpdate(existing, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}
	updated, err := s.store.UpdateWorkExperience(r.Context(), existing)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated, "work experience updated")
}

func applyWorkExperienceUpdate(e *db.WorkExperience, req *types.UpdateWorkExperienceRequest) error {
	if req.Company != nil {
		e.Company = strings.TrimSpace(*req.Company)
	}
	if req.Position != nil {
		e.Position = strings.TrimSpace(*req.Position)
	}
	if req.StartDate != nil {
		start, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			return err
		}
		e.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseOptionalDate("end_date", *req.EndDate)
		if err != nil {
			return err
		}
		e.EndDate = end
	}
	if req.IsCurrent != nil {
		e.IsCurrent = *req.IsCurrent
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Achievements != nil {
		e.Achievements = *req.Achievements
	}
	return nil
}

func (s *Server) handleDeleteWorkExperience(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.store.DeleteWorkExperience, "work experience deleted")
}

// -----------------------------------------------------------------------------
// Education
// -----------------------------------------------------------------------------

func (s *Server) handleListEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	items, err := s.store.ListEducation(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, items, "")
}

func (s *Server) handleCreateEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.CreateEducationRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	created, err := s.store.CreateEducation(r.Context(), &db.Education{
		UserID:      userID,
		School:      strings.TrimSpace(req.School),
		Major:       strings.TrimSpace(req.Major),
		Degree:      strings.TrimSpace(req.Degree),
		StartDate:   start,
		EndDate:     end,
		GPA:         req.GPA,
		Description: req.Description,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created, "education added")
}

func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req types.UpdateEducationRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	existing, err := s.store.GetEducation(r.Context(), userID, id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if existing == nil {
		s.serviceError(w, r, db.ErrNotFound)
		return
	}

	if err := applyEducationUpdate(existing, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}
	updated, err := s.store.UpdateEducation(r.Context(), existing)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated, "education updated")
}

func applyEducationUpdate(e *db.Education, req *types.UpdateEducationRequest) error {
	if req.School != nil {
		e.School = strings.TrimSpace(*req.School)
	}
	if req.Major != nil {
		e.Major = strings.TrimSpace(*req.Major)
	}
	if req.Degree != nil {
		e.Degree = strings.TrimSpace(*req.Degree)
	}
	if req.StartDate != nil {
		start, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			return err
		}
		e.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseOptionalDate("end_date", *req.EndDate)
		if err != nil {
			return err
		}
		e.EndDate = end
	}
	if req.GPA != nil {
		e.GPA = req.GPA
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	return nil
}

func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.store.DeleteEducation, "education deleted")
}

// -----------------------------------------------------------------------------
// Skills and projects
// -----------------------------------------------------------------------------

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	items, err := s.store.ListSkills(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, items, "")
}

func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.CreateSkillRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	created, err := s.store.CreateSkill(r.Context(), &db.Skill{
		UserID:           userID,
		Name:             strings.TrimSpace(req.Name),
		Category:         strings.TrimSpace(req.Category),
		ProficiencyLevel: strings.TrimSpace(req.ProficiencyLevel),
		Description:      req.Description,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created, "skill added")
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.store.DeleteSkill, "skill deleted")
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	items, err := s.store.ListProjects(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, items, "")
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.CreateProjectRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	techStack := db.StringArray{}
	for _, t := range req.TechStack {
		techStack = append(techStack, strings.TrimSpace(t))
	}

	created, err := s.store.CreateProject(r.Context(), &db.Project{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Role:        strings.TrimSpace(req.Role),
		TechStack:   techStack,
		Description: req.Description,
		Results:     req.Results,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created, "project added")
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	s.deleteOwned(w, r, s.store.DeleteProject, "project deleted")
}

// deleteOwned runs a user-scoped delete for the {id} path value.
func (s *Server) deleteOwned(w http.ResponseWriter, r *http.Request,
	del func(ctx context.Context, userID, id uuid.UUID) error, message string) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := del(r.Context(), userID, id); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, nil, message)
}

func parseDate(field, value string) (db.Date, error) {
	d, err := db.ParseDate(value)
	if err != nil {
		return db.Date{}, &ErrValidation{Field: field, Message: "expected YYYY-MM-DD"}
	}
	return d, nil
}

func parseOptionalDate(field, value string) (*db.Date, error) {
	d, err := db.ParseOptionalDate(value)
	if err != nil {
		return nil, &ErrValidation{Field: field, Message: "expected YYYY-MM-DD"}
	}
	return d, nil
}
