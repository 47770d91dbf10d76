package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// PostgresCalendarEventRepository implements domain.CalendarEventRepository
// using PostgreSQL. The calendar_events table carries a partial unique
// index on (candidate_id, step_number) WHERE status <> 'COMPLETED', so a
// racing insert of a second live event fails with a unique violation.
type PostgresCalendarEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCalendarEventRepository creates a new PostgreSQL calendar event repository.
func NewPostgresCalendarEventRepository(pool *pgxpool.Pool) *PostgresCalendarEventRepository {
	return &PostgresCalendarEventRepository{pool: pool}
}

const calendarEventColumns = `
	id, candidate_id, step_number, kind, title, description,
	start_time, end_time, status, attachment_refs, attachment_ref,
	external_id, cancellation_reason, completed_at,
	created_at, updated_at, version
`

// Save persists a calendar event.
func (r *PostgresCalendarEventRepository) Save(ctx context.Context, event *domain.CalendarEvent) error {
	refs, err := json.Marshal(event.AttachmentRefs())
	if err != nil {
		return fmt.Errorf("marshaling attachment refs: %w", err)
	}

	query := `
		INSERT INTO calendar_events (
			id, candidate_id, step_number, kind, title, description,
			start_time, end_time, status, attachment_refs, attachment_ref,
			external_id, cancellation_reason, completed_at,
			created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			status = EXCLUDED.status,
			attachment_refs = EXCLUDED.attachment_refs,
			attachment_ref = EXCLUDED.attachment_ref,
			external_id = EXCLUDED.external_id,
			cancellation_reason = EXCLUDED.cancellation_reason,
			completed_at = EXCLUDED.completed_at,
			updated_at = NOW(),
			version = calendar_events.version + 1
	`
	_, err = r.pool.Exec(ctx, query,
		event.ID(),
		event.CandidateID(),
		event.StepNumber(),
		string(event.Kind()),
		event.Title(),
		event.Description(),
		event.StartTime(),
		event.EndTime(),
		string(event.Status()),
		refs,
		event.AttachmentRef(),
		event.ExternalID(),
		event.CancellationReason(),
		event.CompletedAt(),
		event.CreatedAt(),
		event.UpdatedAt(),
		event.Version(),
	)
	return err
}

// FindByID retrieves an event by id.
func (r *PostgresCalendarEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events WHERE id = $1`
	event, err := r.scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// FindActiveByCandidateAndStep returns the single non-COMPLETED event
// for (candidate, step), or nil when none exists.
func (r *PostgresCalendarEventRepository) FindActiveByCandidateAndStep(ctx context.Context, candidateID uuid.UUID, stepNumber int) (*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
		WHERE candidate_id = $1 AND step_number = $2 AND status <> 'COMPLETED'`
	event, err := r.scanEvent(r.pool.QueryRow(ctx, query, candidateID, stepNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// FindByCandidate returns all of a candidate's events.
func (r *PostgresCalendarEventRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
		WHERE candidate_id = $1 ORDER BY start_time`
	rows, err := r.pool.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanEvents(rows)
}

// ExistsCompleted reports whether a COMPLETED event exists for (candidate, step).
func (r *PostgresCalendarEventRepository) ExistsCompleted(ctx context.Context, candidateID uuid.UUID, stepNumber int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM calendar_events
			WHERE candidate_id = $1 AND step_number = $2 AND status = 'COMPLETED')`,
		candidateID, stepNumber,
	).Scan(&exists)
	return exists, err
}

// FindEarliestByCandidateAndKind returns the candidate's earliest event
// of the kind by start time, or nil.
func (r *PostgresCalendarEventRepository) FindEarliestByCandidateAndKind(ctx context.Context, candidateID uuid.UUID, kind domain.StepKind) (*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
		WHERE candidate_id = $1 AND kind = $2 ORDER BY start_time LIMIT 1`
	event, err := r.scanEvent(r.pool.QueryRow(ctx, query, candidateID, string(kind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// FindDueBefore returns live events whose start time has elapsed,
// oldest first.
func (r *PostgresCalendarEventRepository) FindDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.CalendarEvent, error) {
	query := `SELECT ` + calendarEventColumns + ` FROM calendar_events
		WHERE status IN ('SCHEDULED', 'RESCHEDULED') AND start_time <= $1
		ORDER BY start_time LIMIT $2`
	rows, err := r.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanEvents(rows)
}

func (r *PostgresCalendarEventRepository) scanEvents(rows pgx.Rows) ([]*domain.CalendarEvent, error) {
	var events []*domain.CalendarEvent
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *PostgresCalendarEventRepository) scanEvent(row pgx.Row) (*domain.CalendarEvent, error) {
	var (
		id                 uuid.UUID
		candidateID        uuid.UUID
		stepNumber         int
		kind               string
		title              string
		description        string
		startTime          time.Time
		endTime            time.Time
		status             string
		refsJSON           []byte
		attachmentRef      string
		externalID         string
		cancellationReason string
		completedAt        *time.Time
		createdAt          time.Time
		updatedAt          time.Time
		version            int
	)

	if err := row.Scan(&id, &candidateID, &stepNumber, &kind, &title, &description,
		&startTime, &endTime, &status, &refsJSON, &attachmentRef,
		&externalID, &cancellationReason, &completedAt,
		&createdAt, &updatedAt, &version); err != nil {
		return nil, err
	}

	var refs []string
	if len(refsJSON) > 0 {
		if err := json.Unmarshal(refsJSON, &refs); err != nil {
			return nil, fmt.Errorf("unmarshaling attachment refs: %w", err)
		}
	}

	return domain.RehydrateCalendarEvent(
		id, candidateID, stepNumber, domain.StepKind(kind),
		title, description, startTime, endTime,
		domain.EventStatus(status), refs, attachmentRef,
		externalID, cancellationReason, completedAt,
		createdAt, updatedAt, version,
	), nil
}
