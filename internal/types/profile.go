package types

import "encoding/json"

// CreateWorkExperienceRequest adds an employment history entry.
type CreateWorkExperienceRequest struct {
	Company      string `json:"company" validate:"required"`
	Position     string `json:"position" validate:"required"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent    bool   `json:"is_current"`
	Description  string `json:"description,omitempty"`
	Achievements string `json:"achievements,omitempty"`
}

// UpdateWorkExperienceRequest changes an entry. Nil fields are left unchanged; an empty
// end_date clears it.
type UpdateWorkExperienceRequest struct {
	Company      *string `json:"company,omitempty" validate:"omitnil,min=1"`
	Position     *string `json:"position,omitempty" validate:"omitnil,min=1"`
	StartDate    *string `json:"start_date,omitempty" validate:"omitnil,datetime=2006-01-02"`
	EndDate      *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent    *bool   `json:"is_current,omitempty"`
	Description  *string `json:"description,omitempty"`
	Achievements *string `json:"achievements,omitempty"`
}

// CreateEducationRequest adds an education entry.
type CreateEducationRequest struct {
	School      string   `json:"school" validate:"required"`
	Major       string   `json:"major" validate:"required"`
	Degree      string   `json:"degree" validate:"required"`
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GPA         *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=5"`
	Description string   `json:"description,omitempty"`
}

// UpdateEducationRequest changes an education entry. Nil fields are left unchanged.
type UpdateEducationRequest struct {
	School      *string  `json:"school,omitempty" validate:"omitnil,min=1"`
	Major       *string  `json:"major,omitempty" validate:"omitnil,min=1"`
	Degree      *string  `json:"degree,omitempty" validate:"omitnil,min=1"`
	StartDate   *string  `json:"start_date,omitempty" validate:"omitnil,datetime=2006-01-02"`
	EndDate     *string  `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GPA         *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=5"`
	Description *string  `json:"description,omitempty"`
}

// CreateSkillRequest adds a skill.
type CreateSkillRequest struct {
	Name             string `json:"name" validate:"required"`
	Category         string `json:"category" validate:"required"`
	ProficiencyLevel string `json:"proficiency_level" validate:"required"`
	Description      string `json:"description,omitempty"`
}

// CreateProjectRequest adds a project.
type CreateProjectRequest struct {
	Name        string   `json:"name" validate:"required"`
	Role        string   `json:"role,omitempty"`
	TechStack   []string `json:"tech_stack,omitempty" validate:"dive,required"`
	Description string   `json:"description,omitempty"`
	Results     string   `json:"results,omitempty"`
	StartDate   string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string   `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CreateResumeRequest stores a résumé. Content is a JSON string for markdown résumés and a
// JSON object for structured ones; the format is inferred from it when omitted.
type CreateResumeRequest struct {
	Title     string          `json:"title" validate:"required"`
	Format    string          `json:"format,omitempty" validate:"omitempty,oneof=markdown structured"`
	Content   json.RawMessage `json:"content" validate:"required"`
	IsPublic  bool            `json:"is_public"`
	IsDefault bool            `json:"is_default"`
}

// Validate validates the CreateWorkExperienceRequest using the validator.
func (r *CreateWorkExperienceRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the UpdateWorkExperienceRequest using the validator.
func (r *UpdateWorkExperienceRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the CreateEducationRequest using the validator.
func (r *CreateEducationRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the UpdateEducationRequest using the validator.
func (r *UpdateEducationRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the CreateSkillRequest using the validator.
func (r *CreateSkillRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the CreateProjectRequest using the validator.
func (r *CreateProjectRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Document decodes Content into a ResumeDocument, inferring the format when unset.
func (r *CreateResumeRequest) Document() (ResumeDocument, error) {
	return DecodeDocument(r.Format, r.Content)
}
