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

// SQLiteMessageRepository implements domain.MessageRepository using
// SQLite.
type SQLiteMessageRepository struct {
	db *sql.DB
}

// NewSQLiteMessageRepository creates a new SQLite message repository.
func NewSQLiteMessageRepository(db *sql.DB) *SQLiteMessageRepository {
	return &SQLiteMessageRepository{db: db}
}

// Save persists a message record.
func (r *SQLiteMessageRepository) Save(ctx context.Context, message *domain.Message) error {
	attachments, err := json.Marshal(message.Attachments())
	if err != nil {
		return fmt.Errorf("marshaling attachments: %w", err)
	}

	query := `
		INSERT INTO messages (
			id, candidate_id, message_type, status, recipient, subject,
			attachments, sent_at, failure_reason, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			sent_at = excluded.sent_at,
			failure_reason = excluded.failure_reason,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		message.ID().String(),
		message.CandidateID().String(),
		string(message.Type()),
		string(message.Status()),
		message.Recipient(),
		message.Subject(),
		string(attachments),
		toNullTime(message.SentAt()),
		message.FailureReason(),
		formatTime(message.CreatedAt()),
		formatTime(time.Now()),
	)
	return err
}

// FindByID retrieves a message by id.
func (r *SQLiteMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, candidate_id, message_type, status, recipient, subject,
			attachments, sent_at, failure_reason, created_at, updated_at
		FROM messages WHERE id = ?`, id.String())
	message, err := scanSQLiteMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return message, nil
}

// FindByCandidate returns a candidate's messages, newest first.
func (r *SQLiteMessageRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, candidate_id, message_type, status, recipient, subject,
			attachments, sent_at, failure_reason, created_at, updated_at
		FROM messages WHERE candidate_id = ? ORDER BY created_at DESC`, candidateID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message, err := scanSQLiteMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// ExistsDelivered reports whether a delivered message of the type
// exists for the candidate.
func (r *SQLiteMessageRepository) ExistsDelivered(ctx context.Context, candidateID uuid.UUID, messageType domain.MessageType) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM messages
		WHERE candidate_id = ? AND message_type = ?
		AND status IN ('SENT', 'OPENED', 'CLICKED')`,
		candidateID.String(), string(messageType),
	).Scan(&count)
	return count > 0, err
}

// ExistsRecent reports whether a PENDING or SENT message of the type
// was created after the cutoff.
func (r *SQLiteMessageRepository) ExistsRecent(ctx context.Context, candidateID uuid.UUID, messageType domain.MessageType, cutoff time.Time) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM messages
		WHERE candidate_id = ? AND message_type = ?
		AND status IN ('PENDING', 'SENT') AND created_at > ?`,
		candidateID.String(), string(messageType), formatTime(cutoff),
	).Scan(&count)
	return count > 0, err
}

func scanSQLiteMessage(row rowScanner) (*domain.Message, error) {
	var (
		idStr           string
		candidateIDStr  string
		messageType     string
		status          string
		recipient       string
		subject         string
		attachmentsJSON string
		sentAt          sql.NullString
		failureReason   string
		createdAtStr    string
		updatedAtStr    string
	)

	if err := row.Scan(&idStr, &candidateIDStr, &messageType, &status, &recipient, &subject,
		&attachmentsJSON, &sentAt, &failureReason, &createdAtStr, &updatedAtStr); err != nil {
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
	sent, err := fromNullTime(sentAt)
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

	var attachments []string
	if attachmentsJSON != "" {
		if err := json.Unmarshal([]byte(attachmentsJSON), &attachments); err != nil {
			return nil, fmt.Errorf("unmarshaling attachments: %w", err)
		}
	}

	return domain.RehydrateMessage(
		id, candidateID, domain.MessageType(messageType), domain.MessageStatus(status),
		recipient, subject, attachments, sent, failureReason, createdAt, updatedAt,
	), nil
}
