package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is an account that owns a career profile.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is a login session; its ID is carried in the token.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkExperience is an employment history entry.
type WorkExperience struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Company      string    `json:"company"`
	Position     string    `json:"position"`
	StartDate    Date      `json:"start_date"`
	EndDate      *Date     `json:"end_date"`
	IsCurrent    bool      `json:"is_current"`
	Description  string    `json:"description"`
	Achievements string    `json:"achievements"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Education is an education history entry.
type Education struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	School      string    `json:"school"`
	Major       string    `json:"major"`
	Degree      string    `json:"degree"`
	StartDate   Date      `json:"start_date"`
	EndDate     *Date     `json:"end_date"`
	GPA         *float64  `json:"gpa"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Skill is a named skill with a self-assessed level.
type Skill struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	ProficiencyLevel string    `json:"proficiency_level"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
}

// Project is a project the user worked on.
type Project struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Name        string      `json:"name"`
	Role        string      `json:"role"`
	TechStack   StringArray `json:"tech_stack"` // JSONB array
	Description string      `json:"description"`
	Results     string      `json:"results"`
	StartDate   *Date       `json:"start_date"`
	EndDate     *Date       `json:"end_date"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Resume is a stored résumé document.
type Resume struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Title     string          `json:"title"`
	Format    string          `json:"format"`  // markdown or structured
	Content   json.RawMessage `json:"content"` // JSON string for markdown, JSON object for structured
	IsPublic  bool            `json:"is_public"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Profile is a user's complete career profile.
type Profile struct {
	User            *User            `json:"user"`
	WorkExperiences []WorkExperience `json:"work_experiences"`
	Education       []Education      `json:"education_backgrounds"`
	Skills          []Skill          `json:"skills"`
	Projects        []Project        `json:"projects"`
	Resumes         []Resume         `json:"resumes,omitempty"`
}

// DateLayout is the wire and storage format of Date.
const DateLayout = "2006-01-02"

// Date is a custom type for handling SQL DATE (YYYY-MM-DD)
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// ParseOptionalDate parses s, returning nil for an empty string.
func ParseOptionalDate(s string) (*Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// String formats the date as YYYY-MM-DD, or "" when zero.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Scan implements the Scanner interface
func (d *Date) Scan(value any) error {
	if value == nil {
		return nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("failed to scan Date")
	}
	d.Time = t
	return nil
}

// Value implements the Valuer interface
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src any) error {
	if src == nil {
		*a = []string{}
		return nil
	}
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("StringArray: unsupported source type")
	}
	return json.Unmarshal(source, a)
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}
