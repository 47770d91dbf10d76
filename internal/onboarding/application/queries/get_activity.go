package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

const defaultActivityLimit = 50

// GetActivityQuery requests a candidate's recent engine activity.
type GetActivityQuery struct {
	CandidateID uuid.UUID
	Limit       int
}

// GetActivityHandler handles the GetActivityQuery.
type GetActivityHandler struct {
	activity domain.ActivityRepository
}

// NewGetActivityHandler creates a GetActivityHandler.
func NewGetActivityHandler(activity domain.ActivityRepository) *GetActivityHandler {
	return &GetActivityHandler{activity: activity}
}

// Handle returns the candidate's activity entries, newest first.
func (h *GetActivityHandler) Handle(ctx context.Context, query GetActivityQuery) ([]*domain.ActivityEntry, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return h.activity.ListByCandidate(ctx, query.CandidateID, limit)
}
