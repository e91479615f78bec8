package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// -----------------------------------------------------------------------------
// Work experiences
// -----------------------------------------------------------------------------

const workExperienceColumns = `id, user_id, company, position, start_date, end_date, is_current,
	description, achievements, created_at, updated_at`

func scanWorkExperience(row pgx.Row) (WorkExperience, error) {
	var w WorkExperience
	err := row.Scan(&w.ID, &w.UserID, &w.Company, &w.Position, &w.StartDate, &w.EndDate,
		&w.IsCurrent, &w.Description, &w.Achievements, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// ListWorkExperiences returns the user's work history, most recent first.
func (db *DB) ListWorkExperiences(ctx context.Context, userID uuid.UUID) ([]WorkExperience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+workExperienceColumns+` FROM work_experiences
		 WHERE user_id = $1 ORDER BY start_date DESC, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work experiences: %w", err)
	}
	defer rows.Close()

	items := []WorkExperience{}
	for rows.Next() {
		w, err := scanWorkExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work experience: %w", err)
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

// GetWorkExperience returns the entry if it belongs to userID, or nil.
func (db *DB) GetWorkExperience(ctx context.Context, userID, id uuid.UUID) (*WorkExperience, error) {
	w, err := scanWorkExperience(db.pool.QueryRow(ctx,
		`SELECT `+workExperienceColumns+` FROM work_experiences WHERE id = $1 AND user_id = $2`,
		id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work experience: %w", err)
	}
	return &w, nil
}

// CreateWorkExperience inserts w for w.UserID.
func (db *DB) CreateWorkExperience(ctx context.Context, w *WorkExperience) (*WorkExperience, error) {
	created, err := scanWorkExperience(db.pool.QueryRow(ctx,
		`INSERT INTO work_experiences (user_id, company, position, start_date, end_date, is_current,
		                               description, achievements)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+workExperienceColumns,
		w.UserID, w.Company, w.Position, w.StartDate, w.EndDate, w.IsCurrent,
		w.Description, w.Achievements))
	if err != nil {
		return nil, fmt.Errorf("failed to create work experience: %w", err)
	}
	return &created, nil
}

// UpdateWorkExperience saves every field of w. Returns ErrNotFound if w is not owned by w.UserID.
func (db *DB) UpdateWorkExperience(ctx context.Context, w *WorkExperience) (*WorkExperience, error) {
	updated, err := scanWorkExperience(db.pool.QueryRow(ctx,
		`UPDATE work_experiences
		 SET company = $3, position = $4, start_date = $5, end_date = $6, is_current = $7,
		     description = $8, achievements = $9, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+workExperienceColumns,
		w.ID, w.UserID, w.Company, w.Position, w.StartDate, w.EndDate, w.IsCurrent,
		w.Description, w.Achievements))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update work experience: %w", err)
	}
	return &updated, nil
}

// DeleteWorkExperience removes an entry owned by userID.
func (db *DB) DeleteWorkExperience(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM work_experiences WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "delete work experience")
}

// -----------------------------------------------------------------------------
// Education
// -----------------------------------------------------------------------------

const educationColumns = `id, user_id, school, major, degree, start_date, end_date, gpa,
	description, created_at, updated_at`

func scanEducation(row pgx.Row) (Education, error) {
	var e Education
	err := row.Scan(&e.ID, &e.UserID, &e.School, &e.Major, &e.Degree, &e.StartDate, &e.EndDate,
		&e.GPA, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// ListEducation returns the user's education history, most recent first.
func (db *DB) ListEducation(ctx context.Context, userID uuid.UUID) ([]Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+educationColumns+` FROM education_backgrounds
		 WHERE user_id = $1 ORDER BY start_date DESC, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list education: %w", err)
	}
	defer rows.Close()

	items := []Education{}
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// GetEducation returns the entry if it belongs to userID, or nil.
func (db *DB) GetEducation(ctx context.Context, userID, id uuid.UUID) (*Education, error) {
	e, err := scanEducation(db.pool.QueryRow(ctx,
		`SELECT `+educationColumns+` FROM education_backgrounds WHERE id = $1 AND user_id = $2`,
		id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get education: %w", err)
	}
	return &e, nil
}

// CreateEducation inserts e for e.UserID.
func (db *DB) CreateEducation(ctx context.Context, e *Education) (*Education, error) {
	created, err := scanEducation(db.pool.QueryRow(ctx,
		`INSERT INTO education_backgrounds (user_id, school, major, degree, start_date, end_date, gpa, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+educationColumns,
		e.UserID, e.School, e.Major, e.Degree, e.StartDate, e.EndDate, e.GPA, e.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to create education: %w", err)
	}
	return &created, nil
}

// UpdateEducation saves every field of e. Returns ErrNotFound if e is not owned by e.UserID.
func (db *DB) UpdateEducation(ctx context.Context, e *Education) (*Education, error) {
	updated, err := scanEducation(db.pool.QueryRow(ctx,
		`UPDATE education_backgrounds
		 SET school = $3, major = $4, degree = $5, start_date = $6, end_date = $7, gpa = $8,
		     description = $9, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+educationColumns,
		e.ID, e.UserID, e.School, e.Major, e.Degree, e.StartDate, e.EndDate, e.GPA, e.Description))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update education: %w", err)
	}
	return &updated, nil
}

// DeleteEducation removes an entry owned by userID.
func (db *DB) DeleteEducation(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM education_backgrounds WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "delete education")
}

// -----------------------------------------------------------------------------
// Skills
// -----------------------------------------------------------------------------

// ListSkills returns the user's skills grouped by category.
func (db *DB) ListSkills(ctx context.Context, userID uuid.UUID) ([]Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, name, category, proficiency_level, description, created_at
		 FROM skills WHERE user_id = $1 ORDER BY category, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	skills := []Skill{}
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Category, &s.ProficiencyLevel,
			&s.Description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// CreateSkill inserts s for s.UserID.
func (db *DB) CreateSkill(ctx context.Context, s *Skill) (*Skill, error) {
	created := *s
	err := db.pool.QueryRow(ctx,
		`INSERT INTO skills (user_id, name, category, proficiency_level, description)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		s.UserID, s.Name, s.Category, s.ProficiencyLevel, s.Description,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	return &created, nil
}

// DeleteSkill removes a skill owned by userID.
func (db *DB) DeleteSkill(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "delete skill")
}

// -----------------------------------------------------------------------------
// Projects
// -----------------------------------------------------------------------------

// ListProjects returns the user's projects, most recent first.
func (db *DB) ListProjects(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, name, role, tech_stack, description, results, start_date, end_date, created_at
		 FROM projects WHERE user_id = $1 ORDER BY start_date DESC NULLS LAST, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Role, &p.TechStack, &p.Description,
			&p.Results, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject inserts p for p.UserID.
func (db *DB) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	created := *p
	if created.TechStack == nil {
		created.TechStack = StringArray{}
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO projects (user_id, name, role, tech_stack, description, results, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		p.UserID, p.Name, p.Role, created.TechStack, p.Description, p.Results, p.StartDate, p.EndDate,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &created, nil
}

// DeleteProject removes a project owned by userID.
func (db *DB) DeleteProject(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "delete project")
}

// -----------------------------------------------------------------------------
// Profile
// -----------------------------------------------------------------------------

// GetProfile loads the user and every profile collection concurrently.
// Returns nil if the user does not exist.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID, withResumes bool) (*Profile, error) {
	var p Profile
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		p.User, err = db.GetUserByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		p.WorkExperiences, err = db.ListWorkExperiences(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		p.Education, err = db.ListEducation(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		p.Skills, err = db.ListSkills(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		p.Projects, err = db.ListProjects(gctx, userID)
		return err
	})
	if withResumes {
		g.Go(func() (err error) {
			p.Resumes, err = db.ListResumes(gctx, userID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if p.User == nil {
		return nil, nil
	}
	return &p, nil
}
