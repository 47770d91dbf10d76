package queries

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// GetScheduleQuery requests a candidate's calendar events.
type GetScheduleQuery struct {
	CandidateID uuid.UUID

	// IncludeCompleted keeps COMPLETED and CANCELLED events in the
	// result; by default only live events are returned.
	IncludeCompleted bool
}

// GetScheduleHandler handles the GetScheduleQuery.
type GetScheduleHandler struct {
	events domain.CalendarEventRepository
}

// NewGetScheduleHandler creates a GetScheduleHandler.
func NewGetScheduleHandler(events domain.CalendarEventRepository) *GetScheduleHandler {
	return &GetScheduleHandler{events: events}
}

// Handle returns the candidate's events ordered by start time.
func (h *GetScheduleHandler) Handle(ctx context.Context, query GetScheduleQuery) ([]*domain.CalendarEvent, error) {
	events, err := h.events.FindByCandidate(ctx, query.CandidateID)
	if err != nil {
		return nil, err
	}

	filtered := events[:0:0]
	for _, event := range events {
		if !query.IncludeCompleted {
			if event.Status() == domain.EventStatusCompleted || event.Status() == domain.EventStatusCancelled {
				continue
			}
		}
		filtered = append(filtered, event)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].StartTime().Before(filtered[j].StartTime())
	})
	return filtered, nil
}
