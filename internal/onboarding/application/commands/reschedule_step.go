package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// RescheduleStepCommand moves a candidate's live step event to a new
// time window. A zero NewEnd keeps the step kind's slot length.
type RescheduleStepCommand struct {
	CandidateID uuid.UUID
	StepNumber  int
	ActorID     string
	NewStart    time.Time
	NewEnd      time.Time
}

// RescheduleStepHandler handles the RescheduleStepCommand.
type RescheduleStepHandler struct {
	candidates domain.CandidateRepository
	templates  domain.StepTemplateRepository
	activity   domain.ActivityRepository
	scheduler  *services.CalendarEventScheduler
	logger     *slog.Logger
}

// NewRescheduleStepHandler creates a RescheduleStepHandler.
func NewRescheduleStepHandler(
	candidates domain.CandidateRepository,
	templates domain.StepTemplateRepository,
	activity domain.ActivityRepository,
	scheduler *services.CalendarEventScheduler,
	logger *slog.Logger,
) *RescheduleStepHandler {
	return &RescheduleStepHandler{
		candidates: candidates,
		templates:  templates,
		activity:   activity,
		scheduler:  scheduler,
		logger:     logger,
	}
}

// Handle executes the RescheduleStepCommand.
func (h *RescheduleStepHandler) Handle(ctx context.Context, cmd RescheduleStepCommand) (*domain.CalendarEvent, error) {
	candidate, err := h.candidates.FindByID(ctx, cmd.CandidateID)
	if err != nil {
		return nil, err
	}

	newEnd := cmd.NewEnd
	if newEnd.IsZero() {
		tmpl, err := h.templates.FindByDepartmentAndStep(ctx, candidate.Department(), cmd.StepNumber)
		if err != nil {
			return nil, err
		}
		if tmpl == nil {
			return nil, &domain.StepNotFoundError{Department: candidate.Department(), StepNumber: cmd.StepNumber}
		}
		newEnd = cmd.NewStart.Add(tmpl.Kind().Spec().Duration)
	}

	event, err := h.scheduler.Reschedule(ctx, candidate.ID(), cmd.StepNumber, cmd.NewStart, newEnd)
	if err != nil {
		return nil, err
	}

	entry := domain.NewActivityEntry(candidate.ID(), cmd.StepNumber, domain.ActivityStepScheduled, cmd.ActorID,
		"rescheduled to "+event.StartTime().Format("2006-01-02 15:04"))
	if err := h.activity.Append(ctx, entry); err != nil {
		h.logger.Warn("appending activity entry", slog.String("error", err.Error()))
	}

	return event, nil
}
