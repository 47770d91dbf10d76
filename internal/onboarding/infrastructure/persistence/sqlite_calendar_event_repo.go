package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// SQLiteCalendarEventRepository implements domain.CalendarEventRepository
// using SQLite. Live-event uniqueness is enforced by a partial unique
// index on (candidate_id, step_number) WHERE status <> 'COMPLETED'.
type SQLiteCalendarEventRepository struct {
	db *sql.DB
}

// NewSQLiteCalendarEventRepository creates a new SQLite calendar event repository.
func NewSQLiteCalendarEventRepository(db *sql.DB) *SQLiteCalendarEventRepository {
	return &SQLiteCalendarEventRepository{db: db}
}

const sqliteEventColumns = `
	id, candidate_id, step_number, kind, title, description,
	start_time, end_time, status, attachment_refs, attachment_ref,
	external_id, cancellation_reason, completed_at,
	created_at, updated_at, version
`

// Save persists a calendar event.
func (r *SQLiteCalendarEventRepository) Save(ctx context.Context, event *domain.CalendarEvent) error {
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			status = excluded.status,
			attachment_refs = excluded.attachment_refs,
			attachment_ref = excluded.attachment_ref,
			external_id = excluded.external_id,
			cancellation_reason = excluded.cancellation_reason,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at,
			version = version + 1
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID().String(),
		event.CandidateID().String(),
		event.StepNumber(),
		string(event.Kind()),
		event.Title(),
		event.Description(),
		formatTime(event.StartTime()),
		formatTime(event.EndTime()),
		string(event.Status()),
		string(refs),
		event.AttachmentRef(),
		event.ExternalID(),
		event.CancellationReason(),
		toNullTime(event.CompletedAt()),
		formatTime(event.CreatedAt()),
		formatTime(time.Now()),
		event.Version(),
	)
	return err
}

// FindByID retrieves an event by id.
func (r *SQLiteCalendarEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteEventColumns+` FROM calendar_events WHERE id = ?`, id.String())
	event, err := scanSQLiteEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// FindActiveByCandidateAndStep returns the single non-COMPLETED event
// for (candidate, step), or nil.
func (r *SQLiteCalendarEventRepository) FindActiveByCandidateAndStep(ctx context.Context, candidateID uuid.UUID, stepNumber int) (*domain.CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteEventColumns+` FROM calendar_events
		WHERE candidate_id = ? AND step_number = ? AND status <> 'COMPLETED'`,
		candidateID.String(), stepNumber)
	event, err := scanSQLiteEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// FindByCandidate returns all of a candidate's events.
func (r *SQLiteCalendarEventRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*domain.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sqliteEventColumns+` FROM calendar_events
		WHERE candidate_id = ? ORDER BY start_time`, candidateID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLiteEvents(rows)
}

// ExistsCompleted reports whether a COMPLETED event exists for (candidate, step).
func (r *SQLiteCalendarEventRepository) ExistsCompleted(ctx context.Context, candidateID uuid.UUID, stepNumber int) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM calendar_events
		WHERE candidate_id = ? AND step_number = ? AND status = 'COMPLETED'`,
		candidateID.String(), stepNumber,
	).Scan(&count)
	return count > 0, err
}

// FindEarliestByCandidateAndKind returns the candidate's earliest event
// of the kind by start time, or nil.
func (r *SQLiteCalendarEventRepository) FindEarliestByCandidateAndKind(ctx context.Context, candidateID uuid.UUID, kind domain.StepKind) (*domain.CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteEventColumns+` FROM calendar_events
		WHERE candidate_id = ? AND kind = ? ORDER BY start_time LIMIT 1`,
		candidateID.String(), string(kind))
	event, err := scanSQLiteEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// FindDueBefore returns live events whose start time has elapsed,
// oldest first.
func (r *SQLiteCalendarEventRepository) FindDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sqliteEventColumns+` FROM calendar_events
		WHERE status IN ('SCHEDULED', 'RESCHEDULED') AND start_time <= ?
		ORDER BY start_time LIMIT ?`,
		formatTime(cutoff), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLiteEvents(rows)
}

func scanSQLiteEvents(rows *sql.Rows) ([]*domain.CalendarEvent, error) {
	var events []*domain.CalendarEvent
	for rows.Next() {
		event, err := scanSQLiteEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanSQLiteEvent(row rowScanner) (*domain.CalendarEvent, error) {
	var (
		idStr              string
		candidateIDStr     string
		stepNumber         int
		kind               string
		title              string
		description        string
		startTimeStr       string
		endTimeStr         string
		status             string
		refsJSON           string
		attachmentRef      string
		externalID         string
		cancellationReason string
		completedAt        sql.NullString
		createdAtStr       string
		updatedAtStr       string
		version            int
	)

	if err := row.Scan(&idStr, &candidateIDStr, &stepNumber, &kind, &title, &description,
		&startTimeStr, &endTimeStr, &status, &refsJSON, &attachmentRef,
		&externalID, &cancellationReason, &completedAt,
		&createdAtStr, &updatedAtStr, &version); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	candidateID, err := uuid.Parse(candidateIDStr)
	if err != nil {
		return nil, err
	}
	startTime, err := parseTime(startTimeStr)
	if err != nil {
		return nil, err
	}
	endTime, err := parseTime(endTimeStr)
	if err != nil {
		return nil, err
	}
	completed, err := fromNullTime(completedAt)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime(createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(updatedAtStr)
	if err != nil {
		return nil, err
	}

	var refs []string
	if refsJSON != "" {
		if err := json.Unmarshal([]byte(refsJSON), &refs); err != nil {
			return nil, fmt.Errorf("unmarshaling attachment refs: %w", err)
		}
	}

	return domain.RehydrateCalendarEvent(
		id, candidateID, stepNumber, domain.StepKind(kind),
		title, description, startTime, endTime,
		domain.EventStatus(status), refs, attachmentRef,
		externalID, cancellationReason, completed,
		createdAt, updatedAt, version,
	), nil
}
