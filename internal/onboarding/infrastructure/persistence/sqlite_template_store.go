package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

// SQLiteTemplateStore resolves email templates from SQLite.
type SQLiteTemplateStore struct {
	db *sql.DB
}

// NewSQLiteTemplateStore creates a new SQLite template store.
func NewSQLiteTemplateStore(db *sql.DB) *SQLiteTemplateStore {
	return &SQLiteTemplateStore{db: db}
}

// FindEmailTemplate returns nil when no template has the id.
func (s *SQLiteTemplateStore) FindEmailTemplate(ctx context.Context, id string) (*services.EmailTemplate, error) {
	var tmpl services.EmailTemplate
	err := s.db.QueryRowContext(ctx,
		`SELECT id, subject, body FROM email_templates WHERE id = ?`, id,
	).Scan(&tmpl.ID, &tmpl.Subject, &tmpl.Body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tmpl, nil
}

// Save upserts an email template.
func (s *SQLiteTemplateStore) Save(ctx context.Context, tmpl *services.EmailTemplate) error {
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO email_templates (id, subject, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			subject = excluded.subject,
			body = excluded.body,
			updated_at = excluded.updated_at
	`, tmpl.ID, tmpl.Subject, tmpl.Body, now, now)
	return err
}
