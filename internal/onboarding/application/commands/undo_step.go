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

// UndoStepCommand reverses a step: the candidate's marker is cleared
// and any live calendar event is cancelled. Messages already delivered
// stay delivered; undo affects engine state, not inboxes.
type UndoStepCommand struct {
	CandidateID uuid.UUID
	StepNumber  int
	ActorID     string
	Reason      string
}

// UndoStepHandler handles the UndoStepCommand.
type UndoStepHandler struct {
	candidates domain.CandidateRepository
	templates  domain.StepTemplateRepository
	activity   domain.ActivityRepository
	scheduler  *services.CalendarEventScheduler
	publisher  eventbus.Publisher
	logger     *slog.Logger
}

// NewUndoStepHandler creates an UndoStepHandler.
func NewUndoStepHandler(
	candidates domain.CandidateRepository,
	templates domain.StepTemplateRepository,
	activity domain.ActivityRepository,
	scheduler *services.CalendarEventScheduler,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *UndoStepHandler {
	return &UndoStepHandler{
		candidates: candidates,
		templates:  templates,
		activity:   activity,
		scheduler:  scheduler,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle executes the UndoStepCommand.
func (h *UndoStepHandler) Handle(ctx context.Context, cmd UndoStepCommand) error {
	candidate, err := h.candidates.FindByID(ctx, cmd.CandidateID)
	if err != nil {
		return err
	}

	tmpl, err := h.templates.FindByDepartmentAndStep(ctx, candidate.Department(), cmd.StepNumber)
	if err != nil {
		return err
	}
	if tmpl == nil {
		return &domain.StepNotFoundError{Department: candidate.Department(), StepNumber: cmd.StepNumber}
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "step undone"
	}

	if _, err := h.scheduler.Cancel(ctx, candidate.ID(), cmd.StepNumber, reason); err != nil {
		// Nothing to cancel when the step was triggered without a
		// scheduled event.
		if !errors.Is(err, domain.ErrEventNotFound) {
			return err
		}
	}

	if marker := tmpl.Kind().Spec().Marker; marker != domain.MarkerNone {
		candidate.RevertMarker(marker)
		if err := h.candidates.Save(ctx, candidate); err != nil {
			return err
		}
	}

	entry := domain.NewActivityEntry(candidate.ID(), cmd.StepNumber, domain.ActivityStepUndone, cmd.ActorID, reason)
	if err := h.activity.Append(ctx, entry); err != nil {
		h.logger.Warn("appending activity entry", slog.String("error", err.Error()))
	}

	publishEvents(ctx, h.publisher, h.logger, domain.NewStepUndone(candidate.ID(), cmd.StepNumber))

	return nil
}
