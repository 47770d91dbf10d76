package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

// SQLiteStepTemplateRepository implements domain.StepTemplateRepository
// using SQLite.
type SQLiteStepTemplateRepository struct {
	db *sql.DB
}

// NewSQLiteStepTemplateRepository creates a new SQLite step template repository.
func NewSQLiteStepTemplateRepository(db *sql.DB) *SQLiteStepTemplateRepository {
	return &SQLiteStepTemplateRepository{db: db}
}

// Save persists a step template.
func (r *SQLiteStepTemplateRepository) Save(ctx context.Context, template *domain.StepTemplate) error {
	query := `
		INSERT INTO step_templates (
			id, department, step_number, kind, method, due_date_offset_days,
			scheduled_time_doj, scheduled_time_offer, email_template_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (department, step_number) DO UPDATE SET
			kind = excluded.kind,
			method = excluded.method,
			due_date_offset_days = excluded.due_date_offset_days,
			scheduled_time_doj = excluded.scheduled_time_doj,
			scheduled_time_offer = excluded.scheduled_time_offer,
			email_template_id = excluded.email_template_id,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		template.ID().String(),
		template.Department().String(),
		template.StepNumber(),
		string(template.Kind()),
		string(template.Method()),
		toNullInt(template.DueDateOffsetDays()),
		template.ScheduledTimeDOJ(),
		template.ScheduledTimeOffer(),
		template.EmailTemplateID(),
		formatTime(template.CreatedAt()),
		formatTime(template.UpdatedAt()),
	)
	return err
}

// FindByDepartmentAndStep returns the template for (department, step),
// or nil when none exists.
func (r *SQLiteStepTemplateRepository) FindByDepartmentAndStep(ctx context.Context, department sharedDomain.DepartmentID, stepNumber int) (*domain.StepTemplate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, department, step_number, kind, method, due_date_offset_days,
			scheduled_time_doj, scheduled_time_offer, email_template_id,
			created_at, updated_at
		FROM step_templates WHERE department = ? AND step_number = ?`,
		department.String(), stepNumber)

	template, err := scanSQLiteTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return template, nil
}

// FindByDepartment returns a department's templates ordered by step number.
func (r *SQLiteStepTemplateRepository) FindByDepartment(ctx context.Context, department sharedDomain.DepartmentID) ([]*domain.StepTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, department, step_number, kind, method, due_date_offset_days,
			scheduled_time_doj, scheduled_time_offer, email_template_id,
			created_at, updated_at
		FROM step_templates WHERE department = ? ORDER BY step_number`,
		department.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLiteTemplates(rows)
}

// FindAutoByMethod returns every fully configured automatic template
// with the given scheduling method.
func (r *SQLiteStepTemplateRepository) FindAutoByMethod(ctx context.Context, method domain.SchedulingMethod) ([]*domain.StepTemplate, error) {
	timeColumn := "scheduled_time_doj"
	if method == domain.MethodOfferLetter {
		timeColumn = "scheduled_time_offer"
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, department, step_number, kind, method, due_date_offset_days,
			scheduled_time_doj, scheduled_time_offer, email_template_id,
			created_at, updated_at
		FROM step_templates
		WHERE method = ? AND due_date_offset_days IS NOT NULL AND `+timeColumn+` <> ''
		ORDER BY department, step_number`,
		string(method))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLiteTemplates(rows)
}

// Delete removes a step template.
func (r *SQLiteStepTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM step_templates WHERE id = ?`, id.String())
	return err
}

func scanSQLiteTemplates(rows *sql.Rows) ([]*domain.StepTemplate, error) {
	var templates []*domain.StepTemplate
	for rows.Next() {
		template, err := scanSQLiteTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

func scanSQLiteTemplate(row rowScanner) (*domain.StepTemplate, error) {
	var (
		idStr              string
		department         string
		stepNumber         int
		kind               string
		method             string
		offsetDays         sql.NullInt64
		scheduledTimeDOJ   string
		scheduledTimeOffer string
		emailTemplateID    string
		createdAtStr       string
		updatedAtStr       string
	)

	if err := row.Scan(&idStr, &department, &stepNumber, &kind, &method, &offsetDays,
		&scheduledTimeDOJ, &scheduledTimeOffer, &emailTemplateID,
		&createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
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

	return domain.RehydrateStepTemplate(
		id, sharedDomain.NewDepartmentID(department), stepNumber,
		domain.StepKind(kind), domain.SchedulingMethod(method),
		fromNullInt(offsetDays), scheduledTimeDOJ, scheduledTimeOffer, emailTemplateID,
		createdAt, updatedAt,
	), nil
}
