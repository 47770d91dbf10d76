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
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

// SQLiteCandidateRepository implements domain.CandidateRepository using
// SQLite.
type SQLiteCandidateRepository struct {
	db *sql.DB
}

// NewSQLiteCandidateRepository creates a new SQLite candidate repository.
func NewSQLiteCandidateRepository(db *sql.DB) *SQLiteCandidateRepository {
	return &SQLiteCandidateRepository{db: db}
}

// Save persists a candidate.
func (r *SQLiteCandidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	markers, err := marshalMarkers(candidate.Markers())
	if err != nil {
		return fmt.Errorf("marshaling markers: %w", err)
	}

	query := `
		INSERT INTO candidates (
			id, full_name, email, department, expected_joining_date,
			actual_joining_date, offer_sent_at, offer_signed_at,
			offer_letter_file, markers, created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			email = excluded.email,
			department = excluded.department,
			expected_joining_date = excluded.expected_joining_date,
			actual_joining_date = excluded.actual_joining_date,
			offer_sent_at = excluded.offer_sent_at,
			offer_signed_at = excluded.offer_signed_at,
			offer_letter_file = excluded.offer_letter_file,
			markers = excluded.markers,
			updated_at = excluded.updated_at,
			version = version + 1
	`
	_, err = r.db.ExecContext(ctx, query,
		candidate.ID().String(),
		candidate.FullName(),
		candidate.Email(),
		candidate.Department().String(),
		toNullTime(candidate.ExpectedJoiningDate()),
		toNullTime(candidate.ActualJoiningDate()),
		toNullTime(candidate.OfferSentAt()),
		toNullTime(candidate.OfferSignedAt()),
		candidate.OfferLetterFile(),
		string(markers),
		formatTime(candidate.CreatedAt()),
		formatTime(time.Now()),
		candidate.Version(),
	)
	return err
}

// FindByID retrieves a candidate by id.
func (r *SQLiteCandidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, department, expected_joining_date,
			actual_joining_date, offer_sent_at, offer_signed_at,
			offer_letter_file, markers, created_at, updated_at, version
		FROM candidates WHERE id = ?`, id.String())

	candidate, err := scanSQLiteCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, err
	}
	return candidate, nil
}

// FindByDepartment retrieves all candidates in a department.
func (r *SQLiteCandidateRepository) FindByDepartment(ctx context.Context, department sharedDomain.DepartmentID) ([]*domain.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, email, department, expected_joining_date,
			actual_joining_date, offer_sent_at, offer_signed_at,
			offer_letter_file, markers, created_at, updated_at, version
		FROM candidates WHERE department = ? ORDER BY created_at DESC`, department.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*domain.Candidate
	for rows.Next() {
		candidate, err := scanSQLiteCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

// Delete removes a candidate.
func (r *SQLiteCandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id.String())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteCandidate(row rowScanner) (*domain.Candidate, error) {
	var (
		idStr               string
		fullName            string
		email               string
		department          string
		expectedJoiningDate sql.NullString
		actualJoiningDate   sql.NullString
		offerSentAt         sql.NullString
		offerSignedAt       sql.NullString
		offerLetterFile     string
		markersJSON         string
		createdAtStr        string
		updatedAtStr        string
		version             int
	)

	if err := row.Scan(&idStr, &fullName, &email, &department, &expectedJoiningDate,
		&actualJoiningDate, &offerSentAt, &offerSignedAt,
		&offerLetterFile, &markersJSON, &createdAtStr, &updatedAtStr, &version); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	expected, err := fromNullTime(expectedJoiningDate)
	if err != nil {
		return nil, err
	}
	actual, err := fromNullTime(actualJoiningDate)
	if err != nil {
		return nil, err
	}
	sentAt, err := fromNullTime(offerSentAt)
	if err != nil {
		return nil, err
	}
	signedAt, err := fromNullTime(offerSignedAt)
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

	markers := make(map[domain.Marker]*time.Time)
	if markersJSON != "" {
		var raw map[string]string
		if err := json.Unmarshal([]byte(markersJSON), &raw); err != nil {
			return nil, fmt.Errorf("unmarshaling markers: %w", err)
		}
		for marker, value := range raw {
			at, err := time.Parse(time.RFC3339Nano, value)
			if err != nil {
				return nil, err
			}
			markers[domain.Marker(marker)] = &at
		}
	}

	return domain.RehydrateCandidate(
		id, fullName, email, sharedDomain.NewDepartmentID(department),
		expected, actual, sentAt, signedAt,
		offerLetterFile, markers, createdAt, updatedAt, version,
	), nil
}
