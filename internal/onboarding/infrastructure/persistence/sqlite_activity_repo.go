package persistence

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// SQLiteActivityRepository implements domain.ActivityRepository using
// SQLite.
type SQLiteActivityRepository struct {
	db *sql.DB
}

// NewSQLiteActivityRepository creates a new SQLite activity repository.
func NewSQLiteActivityRepository(db *sql.DB) *SQLiteActivityRepository {
	return &SQLiteActivityRepository{db: db}
}

// Append inserts an activity entry.
func (r *SQLiteActivityRepository) Append(ctx context.Context, entry *domain.ActivityEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_entries (id, candidate_id, step_number, action, actor_id, detail, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(), entry.CandidateID.String(), entry.StepNumber,
		string(entry.Action), entry.ActorID, entry.Detail, formatTime(entry.OccurredAt),
	)
	return err
}

// ListByCandidate returns a candidate's entries, newest first.
func (r *SQLiteActivityRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]*domain.ActivityEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, candidate_id, step_number, action, actor_id, detail, occurred_at
		FROM activity_entries WHERE candidate_id = ?
		ORDER BY occurred_at DESC LIMIT ?`,
		candidateID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ActivityEntry
	for rows.Next() {
		var (
			idStr          string
			candidateIDStr string
			stepNumber     int
			action         string
			actorID        string
			detail         string
			occurredAtStr  string
		)
		if err := rows.Scan(&idStr, &candidateIDStr, &stepNumber, &action, &actorID, &detail, &occurredAtStr); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		cid, err := uuid.Parse(candidateIDStr)
		if err != nil {
			return nil, err
		}
		occurredAt, err := parseTime(occurredAtStr)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &domain.ActivityEntry{
			ID:          id,
			CandidateID: cid,
			StepNumber:  stepNumber,
			Action:      domain.ActivityAction(action),
			ActorID:     actorID,
			Detail:      detail,
			OccurredAt:  occurredAt,
		})
	}
	return entries, rows.Err()
}
