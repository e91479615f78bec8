package server

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/db"
)

// mockDB is an in-memory Store for handler tests
type mockDB struct {
	mu sync.Mutex

	users       map[uuid.UUID]*db.User
	sessions    map[uuid.UUID]*db.Session
	experiences map[uuid.UUID]*db.WorkExperience
	education   map[uuid.UUID]*db.Education
	skills      map[uuid.UUID]*db.Skill
	projects    map[uuid.UUID]*db.Project
	resumes     map[uuid.UUID]*db.Resume

	pingErr error
}

func newMockDB() *mockDB {
	return &mockDB{
		users:       make(map[uuid.UUID]*db.User),
		sessions:    make(map[uuid.UUID]*db.Session),
		experiences: make(map[uuid.UUID]*db.WorkExperience),
		education:   make(map[uuid.UUID]*db.Education),
		skills:      make(map[uuid.UUID]*db.Skill),
		projects:    make(map[uuid.UUID]*db.Project),
		resumes:     make(map[uuid.UUID]*db.Resume),
	}
}

var _ Store = (*mockDB)(nil)

func (m *mockDB) Ping(context.Context) error { return m.pingErr }

// Users and sessions

func (m *mockDB) CreateUser(_ context.Context, u *db.User) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, &db.UniqueViolationError{Field: "username"}
		}
		if existing.Email == u.Email {
			return nil, &db.UniqueViolationError{Field: "email"}
		}
	}
	created := *u
	created.ID = uuid.New()
	created.IsActive = true
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.users[created.ID] = &created
	out := created
	return &out, nil
}

func (m *mockDB) GetUserByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *mockDB) findUser(match func(*db.User) bool) *db.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			out := *u
			return &out
		}
	}
	return nil
}

func (m *mockDB) GetUserByUsername(_ context.Context, username string) (*db.User, error) {
	return m.findUser(func(u *db.User) bool { return u.Username == username }), nil
}

func (m *mockDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	return m.findUser(func(u *db.User) bool { return u.Email == email }), nil
}

func (m *mockDB) UpdateUser(_ context.Context, u *db.User) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return nil, db.ErrNotFound
	}
	updated := *u
	updated.UpdatedAt = time.Now()
	m.users[u.ID] = &updated
	out := updated
	return &out, nil
}

func (m *mockDB) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockDB) CreateSession(_ context.Context, userID uuid.UUID, ttl time.Duration) (*db.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	s := &db.Session{ID: uuid.New(), UserID: userID, ExpiresAt: now.Add(ttl), IsActive: true, CreatedAt: now}
	m.sessions[s.ID] = s
	out := *s
	return &out, nil
}

func (m *mockDB) GetActiveSession(_ context.Context, sessionID uuid.UUID) (*db.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok || !s.IsActive || time.Now().After(s.ExpiresAt) {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (m *mockDB) DeactivateSession(_ context.Context, sessionID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok && s.UserID == userID {
		s.IsActive = false
	}
	return nil
}

// Profile collections

func ownedList[T any](m *mockDB, items map[uuid.UUID]*T, owner func(*T) uuid.UUID, userID uuid.UUID) []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []T{}
	for _, item := range items {
		if owner(item) == userID {
			out = append(out, *item)
		}
	}
	return out
}

func ownedGet[T any](m *mockDB, items map[uuid.UUID]*T, owner func(*T) uuid.UUID, userID, id uuid.UUID) *T {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := items[id]
	if !ok || owner(item) != userID {
		return nil
	}
	out := *item
	return &out
}

func ownedDelete[T any](m *mockDB, items map[uuid.UUID]*T, owner func(*T) uuid.UUID, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := items[id]
	if !ok || owner(item) != userID {
		return db.ErrNotFound
	}
	delete(items, id)
	return nil
}

func weOwner(w *db.WorkExperience) uuid.UUID { return w.UserID }
func eduOwner(e *db.Education) uuid.UUID     { return e.UserID }
func skillOwner(s *db.Skill) uuid.UUID       { return s.UserID }
func projOwner(p *db.Project) uuid.UUID      { return p.UserID }
func resumeOwner(r *db.Resume) uuid.UUID     { return r.UserID }

func (m *mockDB) ListWorkExperiences(_ context.Context, userID uuid.UUID) ([]db.WorkExperience, error) {
	return ownedList(m, m.experiences, weOwner, userID), nil
}

func (m *mockDB) GetWorkExperience(_ context.Context, userID, id uuid.UUID) (*db.WorkExperience, error) {
	return ownedGet(m, m.experiences, weOwner, userID, id), nil
}

func (m *mockDB) CreateWorkExperience(_ context.Context, w *db.WorkExperience) (*db.WorkExperience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *w
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	m.experiences[created.ID] = &created
	out := created
	return &out, nil
}

func (m *mockDB) UpdateWorkExperience(_ context.Context, w *db.WorkExperience) (*db.WorkExperience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.experiences[w.ID]
	if !ok || existing.UserID != w.UserID {
		return nil, db.ErrNotFound
	}
	updated := *w
	m.experiences[w.ID] = &updated
	out := updated
	return &out, nil
}

func (m *mockDB) DeleteWorkExperience(_ context.Context, userID, id uuid.UUID) error {
	return ownedDelete(m, m.experiences, weOwner, userID, id)
}

func (m *mockDB) ListEducation(_ context.Context, userID uuid.UUID) ([]db.Education, error) {
	return ownedList(m, m.education, eduOwner, userID), nil
}

func (m *mockDB) GetEducation(_ context.Context, userID, id uuid.UUID) (*db.Education, error) {
	return ownedGet(m, m.education, eduOwner, userID, id), nil
}

func (m *mockDB) CreateEducation(_ context.Context, e *db.Education) (*db.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *e
	created.ID = uuid.New()
	m.education[created.ID] = &created
	out := created
	return &out, nil
}

func (m *mockDB) UpdateEducation(_ context.Context, e *db.Education) (*db.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.education[e.ID]
	if !ok || existing.UserID != e.UserID {
		return nil, db.ErrNotFound
	}
	updated := *e
	m.education[e.ID] = &updated
	out := updated
	return &out, nil
}

func (m *mockDB) DeleteEducation(_ context.Context, userID, id uuid.UUID) error {
	return ownedDelete(m, m.education, eduOwner, userID, id)
}

func (m *mockDB) ListSkills(_ context.Context, userID uuid.UUID) ([]db.Skill, error) {
	return ownedList(m, m.skills, skillOwner, userID), nil
}

func (m *mockDB) CreateSkill(_ context.Context, s *db.Skill) (*db.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *s
	created.ID = uuid.New()
	m.skills[created.ID] = &created
	out := created
	return &out, nil
}

func (m *mockDB) DeleteSkill(_ context.Context, userID, id uuid.UUID) error {
	return ownedDelete(m, m.skills, skillOwner, userID, id)
}

func (m *mockDB) ListProjects(_ context.Context, userID uuid.UUID) ([]db.Project, error) {
	return ownedList(m, m.projects, projOwner, userID), nil
}

func (m *mockDB) CreateProject(_ context.Context, p *db.Project) (*db.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *p
	created.ID = uuid.New()
	m.projects[created.ID] = &created
	out := created
	return &out, nil
}

func (m *mockDB) DeleteProject(_ context.Context, userID, id uuid.UUID) error {
	return ownedDelete(m, m.projects, projOwner, userID, id)
}

func (m *mockDB) GetProfile(ctx context.Context, userID uuid.UUID, withResumes bool) (*db.Profile, error) {
	user, _ := m.GetUserByID(ctx, userID)
	if user == nil {
		return nil, nil
	}
	profile := &db.Profile{
		User:            user,
		WorkExperiences: ownedList(m, m.experiences, weOwner, userID),
		Education:       ownedList(m, m.education, eduOwner, userID),
		Skills:          ownedList(m, m.skills, skillOwner, userID),
		Projects:        ownedList(m, m.projects, projOwner, userID),
	}
	if withResumes {
		profile.Resumes, _ = m.ListResumes(ctx, userID)
	}
	return profile, nil
}

// Résumés

func (m *mockDB) CreateResume(_ context.Context, r *db.Resume) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *r
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	if created.IsDefault {
		m.clearDefault(created.UserID)
	}
	m.resumes[created.ID] = &created
	out := created
	return &out, nil
}

func (m *mockDB) clearDefault(userID uuid.UUID) {
	for _, r := range m.resumes {
		if r.UserID == userID {
			r.IsDefault = false
		}
	}
}

func (m *mockDB) ListResumes(_ context.Context, userID uuid.UUID) ([]db.Resume, error) {
	out := ownedList(m, m.resumes, resumeOwner, userID)
	slices.SortFunc(out, func(a, b db.Resume) int {
		switch {
		case a.IsDefault && !b.IsDefault:
			return -1
		case b.IsDefault && !a.IsDefault:
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (m *mockDB) GetResume(_ context.Context, userID, id uuid.UUID) (*db.Resume, error) {
	return ownedGet(m, m.resumes, resumeOwner, userID, id), nil
}

func (m *mockDB) SetDefaultResume(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[id]
	if !ok || r.UserID != userID {
		return db.ErrNotFound
	}
	m.clearDefault(userID)
	r.IsDefault = true
	return nil
}

func (m *mockDB) DeleteResume(_ context.Context, userID, id uuid.UUID) error {
	return ownedDelete(m, m.resumes, resumeOwner, userID, id)
}

var errStoreDown = errors.New("connection refused")
