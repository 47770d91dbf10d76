package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

var (
	ErrEventAlreadyCompleted = errors.New("calendar event already completed")
	ErrEventCancelled        = errors.New("calendar event is cancelled")
	ErrInvalidTimeRange      = errors.New("event end must be after start")
)

// EventStatus tracks a calendar event through its lifecycle.
// SCHEDULED → {RESCHEDULED, CANCELLED, COMPLETED}.
type EventStatus string

const (
	EventStatusScheduled   EventStatus = "SCHEDULED"
	EventStatusRescheduled EventStatus = "RESCHEDULED"
	EventStatusCancelled   EventStatus = "CANCELLED"
	EventStatusCompleted   EventStatus = "COMPLETED"
)

// CalendarEvent represents one scheduled occurrence of a step for a
// candidate. At most one non-COMPLETED event may exist per
// (candidateID, stepNumber); the store enforces this with a partial
// unique index and the scheduler checks before creating.
type CalendarEvent struct {
	sharedDomain.BaseAggregateRoot
	candidateID uuid.UUID
	stepNumber  int
	kind        StepKind
	title       string
	description string
	startTime   time.Time
	endTime     time.Time
	status      EventStatus

	// Attachment references carried to the outbound message. The single
	// attachmentRef predates the list and is still consulted after it.
	attachmentRefs []string
	attachmentRef  string

	// Correlation id in the external calendar; empty when external sync
	// failed or is disabled. External sync is best-effort.
	externalID string

	cancellationReason string
	completedAt        *time.Time
}

// NewCalendarEvent creates a SCHEDULED event for a candidate step.
func NewCalendarEvent(
	candidateID uuid.UUID,
	stepNumber int,
	kind StepKind,
	title, description string,
	startTime, endTime time.Time,
) (*CalendarEvent, error) {
	if stepNumber < 1 {
		return nil, ErrInvalidStepNumber
	}
	if !endTime.After(startTime) {
		return nil, ErrInvalidTimeRange
	}

	return &CalendarEvent{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		candidateID:       candidateID,
		stepNumber:        stepNumber,
		kind:              kind,
		title:             title,
		description:       description,
		startTime:         startTime,
		endTime:           endTime,
		status:            EventStatusScheduled,
	}, nil
}

func (e *CalendarEvent) CandidateID() uuid.UUID     { return e.candidateID }
func (e *CalendarEvent) StepNumber() int            { return e.stepNumber }
func (e *CalendarEvent) Kind() StepKind             { return e.kind }
func (e *CalendarEvent) Title() string              { return e.title }
func (e *CalendarEvent) Description() string        { return e.description }
func (e *CalendarEvent) StartTime() time.Time       { return e.startTime }
func (e *CalendarEvent) EndTime() time.Time         { return e.endTime }
func (e *CalendarEvent) Status() EventStatus        { return e.status }
func (e *CalendarEvent) AttachmentRefs() []string   { return e.attachmentRefs }
func (e *CalendarEvent) AttachmentRef() string      { return e.attachmentRef }
func (e *CalendarEvent) ExternalID() string         { return e.externalID }
func (e *CalendarEvent) CancellationReason() string { return e.cancellationReason }
func (e *CalendarEvent) CompletedAt() *time.Time    { return e.completedAt }

// IsCompleted reports whether the event reached its terminal success state.
func (e *CalendarEvent) IsCompleted() bool {
	return e.status == EventStatusCompleted
}

// IsDue reports whether a live event's start time has elapsed.
func (e *CalendarEvent) IsDue(now time.Time) bool {
	if e.status != EventStatusScheduled && e.status != EventStatusRescheduled {
		return false
	}
	return !e.startTime.After(now)
}

// SetExternalID records the external calendar correlation id.
func (e *CalendarEvent) SetExternalID(id string) {
	e.externalID = id
	e.Touch()
}

// SetAttachmentRefs replaces the attachment list.
func (e *CalendarEvent) SetAttachmentRefs(refs []string) {
	e.attachmentRefs = append([]string(nil), refs...)
	e.Touch()
}

// SetAttachmentRef sets the single attachment field.
func (e *CalendarEvent) SetAttachmentRef(ref string) {
	e.attachmentRef = ref
	e.Touch()
}

// Complete transitions the event to COMPLETED. Cancelled events stay
// cancelled; completing one requires scheduling a replacement first.
func (e *CalendarEvent) Complete(at time.Time) error {
	if e.status == EventStatusCompleted {
		return ErrEventAlreadyCompleted
	}
	if e.status == EventStatusCancelled {
		return ErrEventCancelled
	}
	e.status = EventStatusCompleted
	e.completedAt = &at
	e.Touch()
	e.AddDomainEvent(NewStepEventCompleted(e.ID(), e.candidateID, e.stepNumber, e.kind))
	return nil
}

// Reschedule moves a live event to a new time window.
func (e *CalendarEvent) Reschedule(newStart, newEnd time.Time) error {
	if e.status == EventStatusCompleted {
		return ErrEventAlreadyCompleted
	}
	if e.status == EventStatusCancelled {
		return ErrEventCancelled
	}
	if !newEnd.After(newStart) {
		return ErrInvalidTimeRange
	}
	e.startTime = newStart
	e.endTime = newEnd
	e.status = EventStatusRescheduled
	e.Touch()
	return nil
}

// Cancel transitions the event to CANCELLED with a reason.
func (e *CalendarEvent) Cancel(reason string) error {
	if e.status == EventStatusCompleted {
		return ErrEventAlreadyCompleted
	}
	e.status = EventStatusCancelled
	e.cancellationReason = reason
	e.Touch()
	return nil
}

// RehydrateCalendarEvent recreates a calendar event from persisted state.
func RehydrateCalendarEvent(
	id uuid.UUID,
	candidateID uuid.UUID,
	stepNumber int,
	kind StepKind,
	title, description string,
	startTime, endTime time.Time,
	status EventStatus,
	attachmentRefs []string,
	attachmentRef string,
	externalID string,
	cancellationReason string,
	completedAt *time.Time,
	createdAt, updatedAt time.Time,
	version int,
) *CalendarEvent {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &CalendarEvent{
		BaseAggregateRoot:  sharedDomain.RehydrateBaseAggregateRoot(baseEntity, version),
		candidateID:        candidateID,
		stepNumber:         stepNumber,
		kind:               kind,
		title:              title,
		description:        description,
		startTime:          startTime,
		endTime:            endTime,
		status:             status,
		attachmentRefs:     attachmentRefs,
		attachmentRef:      attachmentRef,
		externalID:         externalID,
		cancellationReason: cancellationReason,
		completedAt:        completedAt,
	}
}
