package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrEventNotFound     = errors.New("calendar event not found")
)

// StepNotFoundError is a configuration error: no template exists for the
// requested (department, stepNumber).
type StepNotFoundError struct {
	Department sharedDomain.DepartmentID
	StepNumber int
}

func (e *StepNotFoundError) Error() string {
	return fmt.Sprintf("no step template for department %q step %d", e.Department.String(), e.StepNumber)
}

// MissingAnchorError means the anchor date a step is scheduled against
// is not yet set. Callers treat it as "not yet schedulable", not as a
// hard failure.
type MissingAnchorError struct {
	Method      SchedulingMethod
	CandidateID uuid.UUID
}

func (e *MissingAnchorError) Error() string {
	return fmt.Sprintf("anchor date for method %q not set on candidate %s", e.Method, e.CandidateID)
}

// MissingEmailTemplateError is a configuration error: a step that sends
// a message has no email template assigned. There is no silent fallback.
type MissingEmailTemplateError struct {
	Department sharedDomain.DepartmentID
	StepNumber int
	Kind       StepKind
}

func (e *MissingEmailTemplateError) Error() string {
	return fmt.Sprintf("step %d (%s) in department %q has no email template assigned",
		e.StepNumber, e.Kind, e.Department.String())
}

// MissingRequiredAttachmentError means a step whose kind structurally
// requires a document resolved no attachment.
type MissingRequiredAttachmentError struct {
	CandidateID uuid.UUID
	StepNumber  int
	Kind        StepKind
}

func (e *MissingRequiredAttachmentError) Error() string {
	return fmt.Sprintf("step %d (%s) requires an attachment but none resolved for candidate %s",
		e.StepNumber, e.Kind, e.CandidateID)
}

// IsConfigurationError reports whether the error is fatal configuration
// (never retried automatically) as opposed to a transient failure.
func IsConfigurationError(err error) bool {
	var stepNotFound *StepNotFoundError
	var missingTemplate *MissingEmailTemplateError
	var missingAttachment *MissingRequiredAttachmentError
	return errors.As(err, &stepNotFound) ||
		errors.As(err, &missingTemplate) ||
		errors.As(err, &missingAttachment)
}
