package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

// PostgresTemplateStore resolves email templates from PostgreSQL.
type PostgresTemplateStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTemplateStore creates a new PostgreSQL template store.
func NewPostgresTemplateStore(pool *pgxpool.Pool) *PostgresTemplateStore {
	return &PostgresTemplateStore{pool: pool}
}

// FindEmailTemplate returns nil when no template has the id.
func (s *PostgresTemplateStore) FindEmailTemplate(ctx context.Context, id string) (*services.EmailTemplate, error) {
	var tmpl services.EmailTemplate
	err := s.pool.QueryRow(ctx,
		`SELECT id, subject, body FROM email_templates WHERE id = $1`, id,
	).Scan(&tmpl.ID, &tmpl.Subject, &tmpl.Body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tmpl, nil
}

// Save upserts an email template.
func (s *PostgresTemplateStore) Save(ctx context.Context, tmpl *services.EmailTemplate) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO email_templates (id, subject, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			subject = EXCLUDED.subject,
			body = EXCLUDED.body,
			updated_at = NOW()
	`, tmpl.ID, tmpl.Subject, tmpl.Body, now, now)
	return err
}
