package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/eventbus"
)

// ScheduleStepCommand ensures a calendar event exists for a candidate
// step.
type ScheduleStepCommand struct {
	CandidateID uuid.UUID
	StepNumber  int
	ActorID     string
}

// ScheduleStepResult reports the outcome of a scheduling attempt.
type ScheduleStepResult struct {
	EventID uuid.UUID

	// Created is false when a live event already existed or the step is
	// not yet schedulable.
	Created bool
	Reason  string
}

// ScheduleStepHandler handles the ScheduleStepCommand.
type ScheduleStepHandler struct {
	candidates domain.CandidateRepository
	templates  domain.StepTemplateRepository
	activity   domain.ActivityRepository
	scheduler  *services.CalendarEventScheduler
	publisher  eventbus.Publisher
	logger     *slog.Logger
}

// NewScheduleStepHandler creates a ScheduleStepHandler.
func NewScheduleStepHandler(
	candidates domain.CandidateRepository,
	templates domain.StepTemplateRepository,
	activity domain.ActivityRepository,
	scheduler *services.CalendarEventScheduler,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *ScheduleStepHandler {
	return &ScheduleStepHandler{
		candidates: candidates,
		templates:  templates,
		activity:   activity,
		scheduler:  scheduler,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle executes the ScheduleStepCommand. A step whose anchor date is
// not yet known is reported as not created, not as an error; it becomes
// schedulable once the anchor is set.
func (h *ScheduleStepHandler) Handle(ctx context.Context, cmd ScheduleStepCommand) (*ScheduleStepResult, error) {
	candidate, err := h.candidates.FindByID(ctx, cmd.CandidateID)
	if err != nil {
		return nil, err
	}

	tmpl, err := h.templates.FindByDepartmentAndStep(ctx, candidate.Department(), cmd.StepNumber)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, &domain.StepNotFoundError{Department: candidate.Department(), StepNumber: cmd.StepNumber}
	}

	event, created, err := h.scheduler.Schedule(ctx, candidate, tmpl)
	if err != nil {
		var missing *domain.MissingAnchorError
		if errors.As(err, &missing) {
			return &ScheduleStepResult{Reason: missing.Error()}, nil
		}
		return nil, err
	}
	if !created {
		return &ScheduleStepResult{EventID: event.ID(), Reason: "event already scheduled"}, nil
	}

	entry := domain.NewActivityEntry(candidate.ID(), cmd.StepNumber, domain.ActivityStepScheduled, cmd.ActorID,
		event.StartTime().Format("2006-01-02 15:04"))
	if err := h.activity.Append(ctx, entry); err != nil {
		h.logger.Warn("appending activity entry", slog.String("error", err.Error()))
	}

	publishEvents(ctx, h.publisher, h.logger, event.DomainEvents()...)
	event.ClearDomainEvents()

	return &ScheduleStepResult{EventID: event.ID(), Created: true}, nil
}
