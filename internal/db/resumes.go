package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Resume formats
const (
	ResumeFormatMarkdown   = "markdown"
	ResumeFormatStructured = "structured"
)

const resumeColumns = `id, user_id, title, format, content, is_public, is_default, created_at, updated_at`

func scanResume(row pgx.Row) (Resume, error) {
	var r Resume
	var content []byte
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Format, &content, &r.IsPublic, &r.IsDefault,
		&r.CreatedAt, &r.UpdatedAt)
	r.Content = json.RawMessage(content)
	return r, err
}

// CreateResume stores a résumé. When r.IsDefault is set, the user's previous default is
// cleared in the same transaction.
func (db *DB) CreateResume(ctx context.Context, r *Resume) (*Resume, error) {
	if !json.Valid(r.Content) {
		return nil, fmt.Errorf("failed to create resume: content is not valid JSON")
	}

	var created Resume
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		if r.IsDefault {
			if _, err := tx.Exec(ctx,
				`UPDATE resumes SET is_default = FALSE, updated_at = NOW()
				 WHERE user_id = $1 AND is_default`, r.UserID); err != nil {
				return fmt.Errorf("failed to clear default resume: %w", err)
			}
		}

		var err error
		created, err = scanResume(tx.QueryRow(ctx,
			`INSERT INTO resumes (user_id, title, format, content, is_public, is_default)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+resumeColumns,
			r.UserID, r.Title, r.Format, []byte(r.Content), r.IsPublic, r.IsDefault))
		if err != nil {
			return fmt.Errorf("failed to create resume: %w", uniqueViolation(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListResumes returns the user's résumés, default first, then newest.
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes
		 WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}

// GetResume returns the résumé if it belongs to userID, or nil.
func (db *DB) GetResume(ctx context.Context, userID, id uuid.UUID) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// SetDefaultResume makes id the user's only default résumé.
func (db *DB) SetDefaultResume(ctx context.Context, userID, id uuid.UUID) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE resumes SET is_default = FALSE, updated_at = NOW()
			 WHERE user_id = $1 AND is_default AND id <> $2`, userID, id); err != nil {
			return fmt.Errorf("failed to clear default resume: %w", err)
		}
		tag, err := tx.Exec(ctx,
			`UPDATE resumes SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
			id, userID)
		return affected(tag, err, "set default resume")
	})
}

// DeleteResume removes a résumé owned by userID.
func (db *DB) DeleteResume(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	return affected(tag, err, "delete resume")
}
