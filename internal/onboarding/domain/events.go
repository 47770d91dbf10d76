package domain

import (
	"github.com/google/uuid"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

// Routing keys for onboarding domain events.
const (
	RoutingKeyStepScheduled    = "onboarding.step.scheduled"
	RoutingKeyStepCompleted    = "onboarding.step.completed"
	RoutingKeyStepUndone       = "onboarding.step.undone"
	RoutingKeyCascadeTriggered = "onboarding.cascade.triggered"
)

// StepScheduled fires when a calendar event is created for a step.
type StepScheduled struct {
	sharedDomain.BaseEvent
	CandidateID uuid.UUID
	StepNumber  int
	Kind        StepKind
}

// NewStepScheduled creates a StepScheduled event.
func NewStepScheduled(eventID, candidateID uuid.UUID, stepNumber int, kind StepKind) *StepScheduled {
	return &StepScheduled{
		BaseEvent:   sharedDomain.NewBaseEvent(eventID, "CalendarEvent", RoutingKeyStepScheduled),
		CandidateID: candidateID,
		StepNumber:  stepNumber,
		Kind:        kind,
	}
}

// StepEventCompleted fires when a step's calendar event completes.
type StepEventCompleted struct {
	sharedDomain.BaseEvent
	CandidateID uuid.UUID
	StepNumber  int
	Kind        StepKind
}

// NewStepEventCompleted creates a StepEventCompleted event.
func NewStepEventCompleted(eventID, candidateID uuid.UUID, stepNumber int, kind StepKind) *StepEventCompleted {
	return &StepEventCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(eventID, "CalendarEvent", RoutingKeyStepCompleted),
		CandidateID: candidateID,
		StepNumber:  stepNumber,
		Kind:        kind,
	}
}

// StepUndone fires when a completed or scheduled step is explicitly reversed.
type StepUndone struct {
	sharedDomain.BaseEvent
	CandidateID uuid.UUID
	StepNumber  int
}

// NewStepUndone creates a StepUndone event.
func NewStepUndone(candidateID uuid.UUID, stepNumber int) *StepUndone {
	return &StepUndone{
		BaseEvent:   sharedDomain.NewBaseEvent(candidateID, "Candidate", RoutingKeyStepUndone),
		CandidateID: candidateID,
		StepNumber:  stepNumber,
	}
}

// CascadeTriggered fires when completing an anchor-producing step
// unlocks scheduling of dependent steps.
type CascadeTriggered struct {
	sharedDomain.BaseEvent
	CandidateID    uuid.UUID
	SourceStep     int
	ScheduledSteps []int
}

// NewCascadeTriggered creates a CascadeTriggered event.
func NewCascadeTriggered(candidateID uuid.UUID, sourceStep int, scheduledSteps []int) *CascadeTriggered {
	return &CascadeTriggered{
		BaseEvent:      sharedDomain.NewBaseEvent(candidateID, "Candidate", RoutingKeyCascadeTriggered),
		CandidateID:    candidateID,
		SourceStep:     sourceStep,
		ScheduledSteps: scheduledSteps,
	}
}
