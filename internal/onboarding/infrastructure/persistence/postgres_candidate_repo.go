// Package persistence provides database implementations for the
// onboarding repositories.
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
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

// PostgresCandidateRepository implements domain.CandidateRepository
// using PostgreSQL.
type PostgresCandidateRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCandidateRepository creates a new PostgreSQL candidate repository.
func NewPostgresCandidateRepository(pool *pgxpool.Pool) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{pool: pool}
}

// Save persists a candidate, markers included.
func (r *PostgresCandidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	markers, err := marshalMarkers(candidate.Markers())
	if err != nil {
		return fmt.Errorf("marshaling markers: %w", err)
	}

	query := `
		INSERT INTO candidates (
			id, full_name, email, department, expected_joining_date,
			actual_joining_date, offer_sent_at, offer_signed_at,
			offer_letter_file, markers, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			department = EXCLUDED.department,
			expected_joining_date = EXCLUDED.expected_joining_date,
			actual_joining_date = EXCLUDED.actual_joining_date,
			offer_sent_at = EXCLUDED.offer_sent_at,
			offer_signed_at = EXCLUDED.offer_signed_at,
			offer_letter_file = EXCLUDED.offer_letter_file,
			markers = EXCLUDED.markers,
			updated_at = NOW(),
			version = candidates.version + 1
	`

	_, err = r.pool.Exec(ctx, query,
		candidate.ID(),
		candidate.FullName(),
		candidate.Email(),
		candidate.Department().String(),
		candidate.ExpectedJoiningDate(),
		candidate.ActualJoiningDate(),
		candidate.OfferSentAt(),
		candidate.OfferSignedAt(),
		candidate.OfferLetterFile(),
		markers,
		candidate.CreatedAt(),
		candidate.UpdatedAt(),
		candidate.Version(),
	)
	return err
}

// FindByID retrieves a candidate by id.
func (r *PostgresCandidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	query := `
		SELECT id, full_name, email, department, expected_joining_date,
			actual_joining_date, offer_sent_at, offer_signed_at,
			offer_letter_file, markers, created_at, updated_at, version
		FROM candidates
		WHERE id = $1
	`
	candidate, err := r.scanCandidate(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, err
	}
	return candidate, nil
}

// FindByDepartment retrieves all candidates in a department, newest first.
func (r *PostgresCandidateRepository) FindByDepartment(ctx context.Context, department sharedDomain.DepartmentID) ([]*domain.Candidate, error) {
	query := `
		SELECT id, full_name, email, department, expected_joining_date,
			actual_joining_date, offer_sent_at, offer_signed_at,
			offer_letter_file, markers, created_at, updated_at, version
		FROM candidates
		WHERE department = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, department.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*domain.Candidate
	for rows.Next() {
		candidate, err := r.scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

// Delete removes a candidate.
func (r *PostgresCandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	return err
}

func (r *PostgresCandidateRepository) scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var (
		id                  uuid.UUID
		fullName            string
		email               string
		department          string
		expectedJoiningDate *time.Time
		actualJoiningDate   *time.Time
		offerSentAt         *time.Time
		offerSignedAt       *time.Time
		offerLetterFile     string
		markersJSON         []byte
		createdAt           time.Time
		updatedAt           time.Time
		version             int
	)

	if err := row.Scan(&id, &fullName, &email, &department, &expectedJoiningDate,
		&actualJoiningDate, &offerSentAt, &offerSignedAt,
		&offerLetterFile, &markersJSON, &createdAt, &updatedAt, &version); err != nil {
		return nil, err
	}

	markers, err := unmarshalMarkers(markersJSON)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling markers: %w", err)
	}

	return domain.RehydrateCandidate(
		id, fullName, email, sharedDomain.NewDepartmentID(department),
		expectedJoiningDate, actualJoiningDate, offerSentAt, offerSignedAt,
		offerLetterFile, markers, createdAt, updatedAt, version,
	), nil
}

func marshalMarkers(markers map[domain.Marker]time.Time) ([]byte, error) {
	out := make(map[string]string, len(markers))
	for marker, at := range markers {
		out[string(marker)] = at.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(out)
}

func unmarshalMarkers(data []byte) (map[domain.Marker]*time.Time, error) {
	markers := make(map[domain.Marker]*time.Time)
	if len(data) == 0 {
		return markers, nil
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for marker, value := range raw {
		at, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return nil, err
		}
		markers[domain.Marker(marker)] = &at
	}
	return markers, nil
}
