package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

// PostgresStepTemplateRepository implements domain.StepTemplateRepository
// using PostgreSQL.
type PostgresStepTemplateRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresStepTemplateRepository creates a new PostgreSQL step template repository.
func NewPostgresStepTemplateRepository(pool *pgxpool.Pool) *PostgresStepTemplateRepository {
	return &PostgresStepTemplateRepository{pool: pool}
}

const stepTemplateColumns = `
	id, department, step_number, kind, method, due_date_offset_days,
	scheduled_time_doj, scheduled_time_offer, email_template_id,
	created_at, updated_at
`

// Save persists a step template. The (department, step_number) pair is
// unique; saving an existing pair replaces its configuration.
func (r *PostgresStepTemplateRepository) Save(ctx context.Context, template *domain.StepTemplate) error {
	query := `
		INSERT INTO step_templates (
			id, department, step_number, kind, method, due_date_offset_days,
			scheduled_time_doj, scheduled_time_offer, email_template_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (department, step_number) DO UPDATE SET
			kind = EXCLUDED.kind,
			method = EXCLUDED.method,
			due_date_offset_days = EXCLUDED.due_date_offset_days,
			scheduled_time_doj = EXCLUDED.scheduled_time_doj,
			scheduled_time_offer = EXCLUDED.scheduled_time_offer,
			email_template_id = EXCLUDED.email_template_id,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		template.ID(),
		template.Department().String(),
		template.StepNumber(),
		string(template.Kind()),
		string(template.Method()),
		template.DueDateOffsetDays(),
		template.ScheduledTimeDOJ(),
		template.ScheduledTimeOffer(),
		template.EmailTemplateID(),
		template.CreatedAt(),
		template.UpdatedAt(),
	)
	return err
}

// FindByDepartmentAndStep returns the template for (department, step),
// or nil when the department has no such step.
func (r *PostgresStepTemplateRepository) FindByDepartmentAndStep(ctx context.Context, department sharedDomain.DepartmentID, stepNumber int) (*domain.StepTemplate, error) {
	query := `SELECT ` + stepTemplateColumns + ` FROM step_templates WHERE department = $1 AND step_number = $2`
	template, err := r.scanTemplate(r.pool.QueryRow(ctx, query, department.String(), stepNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return template, nil
}

// FindByDepartment returns a department's templates ordered by step number.
func (r *PostgresStepTemplateRepository) FindByDepartment(ctx context.Context, department sharedDomain.DepartmentID) ([]*domain.StepTemplate, error) {
	query := `SELECT ` + stepTemplateColumns + ` FROM step_templates WHERE department = $1 ORDER BY step_number`
	rows, err := r.pool.Query(ctx, query, department.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanTemplates(rows)
}

// FindAutoByMethod returns every fully configured automatic template
// with the given scheduling method, across departments.
func (r *PostgresStepTemplateRepository) FindAutoByMethod(ctx context.Context, method domain.SchedulingMethod) ([]*domain.StepTemplate, error) {
	timeColumn := "scheduled_time_doj"
	if method == domain.MethodOfferLetter {
		timeColumn = "scheduled_time_offer"
	}
	query := `SELECT ` + stepTemplateColumns + ` FROM step_templates
		WHERE method = $1 AND due_date_offset_days IS NOT NULL AND ` + timeColumn + ` <> ''
		ORDER BY department, step_number`
	rows, err := r.pool.Query(ctx, query, string(method))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanTemplates(rows)
}

// Delete removes a step template.
func (r *PostgresStepTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM step_templates WHERE id = $1`, id)
	return err
}

func (r *PostgresStepTemplateRepository) scanTemplates(rows pgx.Rows) ([]*domain.StepTemplate, error) {
	var templates []*domain.StepTemplate
	for rows.Next() {
		template, err := r.scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

func (r *PostgresStepTemplateRepository) scanTemplate(row pgx.Row) (*domain.StepTemplate, error) {
	var (
		id                 uuid.UUID
		department         string
		stepNumber         int
		kind               string
		method             string
		dueDateOffsetDays  *int
		scheduledTimeDOJ   string
		scheduledTimeOffer string
		emailTemplateID    string
		createdAt          time.Time
		updatedAt          time.Time
	)

	if err := row.Scan(&id, &department, &stepNumber, &kind, &method, &dueDateOffsetDays,
		&scheduledTimeDOJ, &scheduledTimeOffer, &emailTemplateID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return domain.RehydrateStepTemplate(
		id, sharedDomain.NewDepartmentID(department), stepNumber,
		domain.StepKind(kind), domain.SchedulingMethod(method),
		dueDateOffsetDays, scheduledTimeDOJ, scheduledTimeOffer, emailTemplateID,
		createdAt, updatedAt,
	), nil
}
