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

// ErrMessageNotFound is returned when a message id does not exist.
var ErrMessageNotFound = errors.New("message not found")

// PostgresMessageRepository implements domain.MessageRepository using
// PostgreSQL.
type PostgresMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMessageRepository creates a new PostgreSQL message repository.
func NewPostgresMessageRepository(pool *pgxpool.Pool) *PostgresMessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

const messageColumns = `
	id, candidate_id, message_type, status, recipient, subject,
	attachments, sent_at, failure_reason, created_at, updated_at
`

// Save persists a message record.
func (r *PostgresMessageRepository) Save(ctx context.Context, message *domain.Message) error {
	attachments, err := json.Marshal(message.Attachments())
	if err != nil {
		return fmt.Errorf("marshaling attachments: %w", err)
	}

	query := `
		INSERT INTO messages (
			id, candidate_id, message_type, status, recipient, subject,
			attachments, sent_at, failure_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			sent_at = EXCLUDED.sent_at,
			failure_reason = EXCLUDED.failure_reason,
			updated_at = NOW()
	`
	_, err = r.pool.Exec(ctx, query,
		message.ID(),
		message.CandidateID(),
		string(message.Type()),
		string(message.Status()),
		message.Recipient(),
		message.Subject(),
		attachments,
		message.SentAt(),
		message.FailureReason(),
		message.CreatedAt(),
		message.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a message by id.
func (r *PostgresMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	message, err := r.scanMessage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return message, nil
}

// FindByCandidate returns a candidate's messages, newest first.
func (r *PostgresMessageRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE candidate_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message, err := r.scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// ExistsDelivered reports whether a delivered message of the type
// exists for the candidate. OPENED and CLICKED imply delivery.
func (r *PostgresMessageRepository) ExistsDelivered(ctx context.Context, candidateID uuid.UUID, messageType domain.MessageType) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages
			WHERE candidate_id = $1 AND message_type = $2
			AND status IN ('SENT', 'OPENED', 'CLICKED'))`,
		candidateID, string(messageType),
	).Scan(&exists)
	return exists, err
}

// ExistsRecent reports whether a PENDING or SENT message of the type
// was created for the candidate after the cutoff.
func (r *PostgresMessageRepository) ExistsRecent(ctx context.Context, candidateID uuid.UUID, messageType domain.MessageType, cutoff time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages
			WHERE candidate_id = $1 AND message_type = $2
			AND status IN ('PENDING', 'SENT') AND created_at > $3)`,
		candidateID, string(messageType), cutoff,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresMessageRepository) scanMessage(row pgx.Row) (*domain.Message, error) {
	var (
		id              uuid.UUID
		candidateID     uuid.UUID
		messageType     string
		status          string
		recipient       string
		subject         string
		attachmentsJSON []byte
		sentAt          *time.Time
		failureReason   string
		createdAt       time.Time
		updatedAt       time.Time
	)

	if err := row.Scan(&id, &candidateID, &messageType, &status, &recipient, &subject,
		&attachmentsJSON, &sentAt, &failureReason, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var attachments []string
	if len(attachmentsJSON) > 0 {
		if err := json.Unmarshal(attachmentsJSON, &attachments); err != nil {
			return nil, fmt.Errorf("unmarshaling attachments: %w", err)
		}
	}

	return domain.RehydrateMessage(
		id, candidateID, domain.MessageType(messageType), domain.MessageStatus(status),
		recipient, subject, attachments, sentAt, failureReason, createdAt, updatedAt,
	), nil
}
