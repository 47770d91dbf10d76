package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction enumerates auditable engine actions.
type ActivityAction string

const (
	ActivityStepCompleted ActivityAction = "step_completed"
	ActivityStepScheduled ActivityAction = "step_scheduled"
	ActivityStepSkipped   ActivityAction = "step_skipped"
	ActivityStepUndone    ActivityAction = "step_undone"
	ActivityStepFailed    ActivityAction = "step_failed"
)

// ActivityEntry is an append-only audit record. The engine only writes
// these; nothing in the engine ever reads them back.
type ActivityEntry struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	StepNumber  int
	Action      ActivityAction
	ActorID     string
	Detail      string
	OccurredAt  time.Time
}

// NewActivityEntry creates an audit entry stamped with the current time.
func NewActivityEntry(candidateID uuid.UUID, stepNumber int, action ActivityAction, actorID, detail string) *ActivityEntry {
	return &ActivityEntry{
		ID:          uuid.New(),
		CandidateID: candidateID,
		StepNumber:  stepNumber,
		Action:      action,
		ActorID:     actorID,
		Detail:      detail,
		OccurredAt:  time.Now().UTC(),
	}
}
