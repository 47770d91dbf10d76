package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/database"
)

// CalendarEventScheduler creates and maintains calendar events for
// candidate steps. External calendar sync is best-effort: the local
// record is created and saved even when the provider call fails.
type CalendarEventScheduler struct {
	events   domain.CalendarEventRepository
	anchors  *AnchorDateResolver
	provider CalendarProvider
	logger   *slog.Logger
}

// NewCalendarEventScheduler creates a calendar event scheduler. The
// provider may be nil when external calendar sync is disabled.
func NewCalendarEventScheduler(
	events domain.CalendarEventRepository,
	anchors *AnchorDateResolver,
	provider CalendarProvider,
	logger *slog.Logger,
) *CalendarEventScheduler {
	return &CalendarEventScheduler{
		events:   events,
		anchors:  anchors,
		provider: provider,
		logger:   logger,
	}
}

// Schedule ensures a live calendar event exists for the candidate's
// step. When one already exists it is returned unchanged, so repeated
// scheduler passes and manual triggers converge on a single event.
func (s *CalendarEventScheduler) Schedule(
	ctx context.Context,
	candidate *domain.Candidate,
	tmpl *domain.StepTemplate,
) (*domain.CalendarEvent, bool, error) {
	existing, err := s.events.FindActiveByCandidateAndStep(ctx, candidate.ID(), tmpl.StepNumber())
	if err != nil {
		return nil, false, fmt.Errorf("finding active event: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	start, end, err := s.anchors.Resolve(ctx, candidate, tmpl)
	if err != nil {
		return nil, false, err
	}

	title := fmt.Sprintf("%s: %s", stepTitle(tmpl.Kind()), candidate.FullName())
	description := fmt.Sprintf("Step %d (%s) for %s in %s.",
		tmpl.StepNumber(), tmpl.Kind(), candidate.FullName(), candidate.Department())

	event, err := domain.NewCalendarEvent(
		candidate.ID(), tmpl.StepNumber(), tmpl.Kind(),
		title, description, start, end,
	)
	if err != nil {
		return nil, false, err
	}
	if candidate.OfferLetterFile() != "" && tmpl.StepNumber() == 1 {
		event.SetAttachmentRef(candidate.OfferLetterFile())
	}
	event.AddDomainEvent(domain.NewStepScheduled(event.ID(), candidate.ID(), tmpl.StepNumber(), tmpl.Kind()))

	s.syncCreate(ctx, event, candidate)

	if err := s.events.Save(ctx, event); err != nil {
		// A concurrent scheduler pass won the partial unique index race;
		// converge on the event it created.
		if database.IsUniqueViolation(err) {
			existing, findErr := s.events.FindActiveByCandidateAndStep(ctx, candidate.ID(), tmpl.StepNumber())
			if findErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("saving calendar event: %w", err)
	}

	return event, true, nil
}

// Complete marks the candidate's live event for the step as COMPLETED.
// Returns ErrEventNotFound when no live event exists.
func (s *CalendarEventScheduler) Complete(ctx context.Context, candidateID uuid.UUID, stepNumber int, at time.Time) (*domain.CalendarEvent, error) {
	event, err := s.events.FindActiveByCandidateAndStep(ctx, candidateID, stepNumber)
	if err != nil {
		return nil, fmt.Errorf("finding active event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	if err := event.Complete(at); err != nil {
		return nil, err
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("saving completed event: %w", err)
	}
	return event, nil
}

// Reschedule moves the candidate's live event for the step to a new
// window, propagating the change to the external calendar first.
func (s *CalendarEventScheduler) Reschedule(ctx context.Context, candidateID uuid.UUID, stepNumber int, newStart, newEnd time.Time) (*domain.CalendarEvent, error) {
	event, err := s.events.FindActiveByCandidateAndStep(ctx, candidateID, stepNumber)
	if err != nil {
		return nil, fmt.Errorf("finding active event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	if s.provider != nil && event.ExternalID() != "" {
		if err := s.provider.UpdateEvent(ctx, event.ExternalID(), newStart, newEnd); err != nil {
			s.logger.Warn("external calendar update failed",
				slog.String("event_id", event.ID().String()),
				slog.String("external_id", event.ExternalID()),
				slog.String("error", err.Error()))
		}
	}

	if err := event.Reschedule(newStart, newEnd); err != nil {
		return nil, err
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("saving rescheduled event: %w", err)
	}
	return event, nil
}

// Cancel cancels the candidate's live event for the step with a reason.
func (s *CalendarEventScheduler) Cancel(ctx context.Context, candidateID uuid.UUID, stepNumber int, reason string) (*domain.CalendarEvent, error) {
	event, err := s.events.FindActiveByCandidateAndStep(ctx, candidateID, stepNumber)
	if err != nil {
		return nil, fmt.Errorf("finding active event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	if s.provider != nil && event.ExternalID() != "" {
		if err := s.provider.CancelEvent(ctx, event.ExternalID()); err != nil {
			s.logger.Warn("external calendar cancel failed",
				slog.String("event_id", event.ID().String()),
				slog.String("external_id", event.ExternalID()),
				slog.String("error", err.Error()))
		}
	}

	if err := event.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, fmt.Errorf("saving cancelled event: %w", err)
	}
	return event, nil
}

func (s *CalendarEventScheduler) syncCreate(ctx context.Context, event *domain.CalendarEvent, candidate *domain.Candidate) {
	if s.provider == nil {
		return
	}
	externalID, err := s.provider.CreateEvent(ctx, CreateEventRequest{
		Title:       event.Title(),
		Description: event.Description(),
		Start:       event.StartTime(),
		End:         event.EndTime(),
		Attendees:   []string{candidate.Email()},
	})
	if err != nil {
		s.logger.Warn("external calendar create failed",
			slog.String("candidate_id", candidate.ID().String()),
			slog.Int("step_number", event.StepNumber()),
			slog.String("error", err.Error()))
		return
	}
	event.SetExternalID(externalID)
}

func stepTitle(kind domain.StepKind) string {
	switch kind {
	case domain.StepKindOfferLetter:
		return "Offer Letter"
	case domain.StepKindOfferReminder:
		return "Offer Reminder"
	case domain.StepKindDocumentRequest:
		return "Document Request"
	case domain.StepKindHRInduction:
		return "HR Induction"
	case domain.StepKindTeamInduction:
		return "Team Induction"
	case domain.StepKindTraining:
		return "Training"
	case domain.StepKindCheckIn:
		return "Check-in"
	default:
		return string(kind)
	}
}
