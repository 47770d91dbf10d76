package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

// CandidateRepository persists candidates.
type CandidateRepository interface {
	Save(ctx context.Context, candidate *Candidate) error
	FindByID(ctx context.Context, id uuid.UUID) (*Candidate, error)
	FindByDepartment(ctx context.Context, department sharedDomain.DepartmentID) ([]*Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StepTemplateRepository persists department step templates.
// Exactly one template exists per (department, stepNumber).
type StepTemplateRepository interface {
	Save(ctx context.Context, template *StepTemplate) error
	FindByDepartmentAndStep(ctx context.Context, department sharedDomain.DepartmentID, stepNumber int) (*StepTemplate, error)
	FindByDepartment(ctx context.Context, department sharedDomain.DepartmentID) ([]*StepTemplate, error)
	FindAutoByMethod(ctx context.Context, method SchedulingMethod) ([]*StepTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CalendarEventRepository persists calendar events.
type CalendarEventRepository interface {
	Save(ctx context.Context, event *CalendarEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*CalendarEvent, error)

	// FindActiveByCandidateAndStep returns the single non-COMPLETED event
	// for (candidate, stepNumber), or nil when none exists.
	FindActiveByCandidateAndStep(ctx context.Context, candidateID uuid.UUID, stepNumber int) (*CalendarEvent, error)

	FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*CalendarEvent, error)

	// ExistsCompleted reports whether a COMPLETED event exists for
	// (candidate, stepNumber).
	ExistsCompleted(ctx context.Context, candidateID uuid.UUID, stepNumber int) (bool, error)

	// FindEarliestByCandidateAndKind returns the candidate's earliest
	// event of the kind by start time, or nil. Used to resolve the
	// offer-letter anchor from calendar history.
	FindEarliestByCandidateAndKind(ctx context.Context, candidateID uuid.UUID, kind StepKind) (*CalendarEvent, error)

	// FindDueBefore returns live (SCHEDULED or RESCHEDULED) events whose
	// start time has elapsed, oldest first, up to limit.
	FindDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]*CalendarEvent, error)
}

// MessageRepository persists outbound message records.
type MessageRepository interface {
	Save(ctx context.Context, message *Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*Message, error)

	// ExistsDelivered reports whether a SENT (or later engagement state)
	// message of the type exists for the candidate.
	ExistsDelivered(ctx context.Context, candidateID uuid.UUID, messageType MessageType) (bool, error)

	// ExistsRecent reports whether a PENDING or SENT message of the type
	// was created for the candidate after the cutoff.
	ExistsRecent(ctx context.Context, candidateID uuid.UUID, messageType MessageType, cutoff time.Time) (bool, error)
}

// ActivityRepository appends audit entries. The engine is write-only
// here; reads exist solely for the activity feed.
type ActivityRepository interface {
	Append(ctx context.Context, entry *ActivityEntry) error
	ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]*ActivityEntry, error)
}
