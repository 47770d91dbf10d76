package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// PostgresActivityRepository implements domain.ActivityRepository using
// PostgreSQL. The table is append-only.
type PostgresActivityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresActivityRepository creates a new PostgreSQL activity repository.
func NewPostgresActivityRepository(pool *pgxpool.Pool) *PostgresActivityRepository {
	return &PostgresActivityRepository{pool: pool}
}

// Append inserts an activity entry.
func (r *PostgresActivityRepository) Append(ctx context.Context, entry *domain.ActivityEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_entries (id, candidate_id, step_number, action, actor_id, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.CandidateID, entry.StepNumber, string(entry.Action),
		entry.ActorID, entry.Detail, entry.OccurredAt,
	)
	return err
}

// ListByCandidate returns a candidate's entries, newest first.
func (r *PostgresActivityRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]*domain.ActivityEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, candidate_id, step_number, action, actor_id, detail, occurred_at
		FROM activity_entries WHERE candidate_id = $1
		ORDER BY occurred_at DESC LIMIT $2`,
		candidateID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ActivityEntry
	for rows.Next() {
		var (
			entry  domain.ActivityEntry
			action string
		)
		var occurredAt time.Time
		if err := rows.Scan(&entry.ID, &entry.CandidateID, &entry.StepNumber, &action,
			&entry.ActorID, &entry.Detail, &occurredAt); err != nil {
			return nil, err
		}
		entry.Action = domain.ActivityAction(action)
		entry.OccurredAt = occurredAt
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
