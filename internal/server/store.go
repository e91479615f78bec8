package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/db"
)

// UserStore persists accounts and login sessions.
type UserStore interface {
	CreateUser(ctx context.Context, u *db.User) (*db.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByUsername(ctx context.Context, username string) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdateUser(ctx context.Context, u *db.User) (*db.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	CreateSession(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*db.Session, error)
	GetActiveSession(ctx context.Context, sessionID uuid.UUID) (*db.Session, error)
	DeactivateSession(ctx context.Context, sessionID, userID uuid.UUID) error
}

// ProfileStore persists the career profile collections. Every method is scoped to the
// owning user.
type ProfileStore interface {
	ListWorkExperiences(ctx context.Context, userID uuid.UUID) ([]db.WorkExperience, error)
	GetWorkExperience(ctx context.Context, userID, id uuid.UUID) (*db.WorkExperience, error)
	CreateWorkExperience(ctx context.Context, w *db.WorkExperience) (*db.WorkExperience, error)
	UpdateWorkExperience(ctx context.Context, w *db.WorkExperience) (*db.WorkExperience, error)
	DeleteWorkExperience(ctx context.Context, userID, id uuid.UUID) error

	ListEducation(ctx context.Context, userID uuid.UUID) ([]db.Education, error)
	GetEducation(ctx context.Context, userID, id uuid.UUID) (*db.Education, error)
	CreateEducation(ctx context.Context, e *db.Education) (*db.Education, error)
	UpdateEducation(ctx context.Context, e *db.Education) (*db.Education, error)
	DeleteEducation(ctx context.Context, userID, id uuid.UUID) error

	ListSkills(ctx context.Context, userID uuid.UUID) ([]db.Skill, error)
	CreateSkill(ctx context.Context, s *db.Skill) (*db.Skill, error)
	DeleteSkill(ctx context.Context, userID, id uuid.UUID) error

	ListProjects(ctx context.Context, userID uuid.UUID) ([]db.Project, error)
	CreateProject(ctx context.Context, p *db.Project) (*db.Project, error)
	DeleteProject(ctx context.Context, userID, id uuid.UUID) error

	GetProfile(ctx context.Context, userID uuid.UUID, withResumes bool) (*db.Profile, error)
}

// ResumeStore persists résumé documents.
type ResumeStore interface {
	CreateResume(ctx context.Context, r *db.Resume) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	GetResume(ctx context.Context, userID, id uuid.UUID) (*db.Resume, error)
	SetDefaultResume(ctx context.Context, userID, id uuid.UUID) error
	DeleteResume(ctx context.Context, userID, id uuid.UUID) error
}

// Store is everything the API reads and writes. *db.DB implements it.
type Store interface {
	UserStore
	ProfileStore
	ResumeStore
	Ping(ctx context.Context) error
}

var _ Store = (*db.DB)(nil)
