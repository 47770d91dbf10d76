// Package application wires the onboarding engine's command and query
// handlers behind a single facade used by the CLI and the worker.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/application/commands"
	"github.com/joinflow/joinflow/internal/onboarding/application/queries"
	"github.com/joinflow/joinflow/internal/onboarding/application/services"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/eventbus"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/lease"
)

// Repositories bundles the persistence ports the engine needs.
type Repositories struct {
	Candidates domain.CandidateRepository
	Templates  domain.StepTemplateRepository
	Events     domain.CalendarEventRepository
	Messages   domain.MessageRepository
	Activity   domain.ActivityRepository
}

// Providers bundles the outbound ports. Calendar may be nil when
// external calendar sync is disabled.
type Providers struct {
	Calendar  services.CalendarProvider
	Mailer    services.MessageProvider
	Templates services.TemplateStore
	Leases    lease.Store
	Publisher eventbus.Publisher
}

// Options tune engine behavior.
type Options struct {
	// DispatchDebounce suppresses duplicate message dispatches inside
	// the window. Zero selects the default.
	DispatchDebounce time.Duration
}

// Service is the onboarding engine facade.
type Service struct {
	completeStep   *commands.CompleteStepHandler
	scheduleStep   *commands.ScheduleStepHandler
	undoStep       *commands.UndoStepHandler
	rescheduleStep *commands.RescheduleStepHandler
	getActivity    *queries.GetActivityHandler
	getSchedule    *queries.GetScheduleHandler

	Scheduler *services.CalendarEventScheduler
	Cascade   *services.CascadeScanner
}

// NewService wires the engine from its ports.
func NewService(repos Repositories, providers Providers, opts Options, logger *slog.Logger) *Service {
	anchors := services.NewAnchorDateResolver(repos.Events)
	scheduler := services.NewCalendarEventScheduler(repos.Events, anchors, providers.Calendar, logger)
	cascade := services.NewCascadeScanner(repos.Templates, scheduler, logger)
	guard := services.NewDispatchGuard(repos.Events, repos.Messages, opts.DispatchDebounce)
	attachments := services.NewAttachmentResolver(repos.Events)
	renderer := services.NewTemplateRenderer()

	return &Service{
		completeStep: commands.NewCompleteStepHandler(
			repos.Candidates, repos.Templates, repos.Messages, repos.Activity,
			guard, scheduler, cascade, attachments, renderer,
			providers.Templates, providers.Mailer, providers.Leases, providers.Publisher,
			logger,
		),
		scheduleStep: commands.NewScheduleStepHandler(
			repos.Candidates, repos.Templates, repos.Activity, scheduler, providers.Publisher, logger,
		),
		undoStep: commands.NewUndoStepHandler(
			repos.Candidates, repos.Templates, repos.Activity, scheduler, providers.Publisher, logger,
		),
		rescheduleStep: commands.NewRescheduleStepHandler(
			repos.Candidates, repos.Templates, repos.Activity, scheduler, logger,
		),
		getActivity: queries.NewGetActivityHandler(repos.Activity),
		getSchedule: queries.NewGetScheduleHandler(repos.Events),
		Scheduler:   scheduler,
		Cascade:     cascade,
	}
}

// CompleteStep triggers a step's side effects for a candidate.
func (s *Service) CompleteStep(ctx context.Context, cmd commands.CompleteStepCommand) (*commands.StepResult, error) {
	return s.completeStep.Handle(ctx, cmd)
}

// ScheduleStep ensures a calendar event exists for a candidate step.
func (s *Service) ScheduleStep(ctx context.Context, cmd commands.ScheduleStepCommand) (*commands.ScheduleStepResult, error) {
	return s.scheduleStep.Handle(ctx, cmd)
}

// UndoStep reverses a step's engine state.
func (s *Service) UndoStep(ctx context.Context, cmd commands.UndoStepCommand) error {
	return s.undoStep.Handle(ctx, cmd)
}

// RescheduleStep moves a candidate's live step event.
func (s *Service) RescheduleStep(ctx context.Context, cmd commands.RescheduleStepCommand) (*domain.CalendarEvent, error) {
	return s.rescheduleStep.Handle(ctx, cmd)
}

// Activity returns a candidate's recent engine activity.
func (s *Service) Activity(ctx context.Context, candidateID uuid.UUID, limit int) ([]*domain.ActivityEntry, error) {
	return s.getActivity.Handle(ctx, queries.GetActivityQuery{CandidateID: candidateID, Limit: limit})
}

// Schedule returns a candidate's calendar events.
func (s *Service) Schedule(ctx context.Context, candidateID uuid.UUID, includeCompleted bool) ([]*domain.CalendarEvent, error) {
	return s.getSchedule.Handle(ctx, queries.GetScheduleQuery{CandidateID: candidateID, IncludeCompleted: includeCompleted})
}
