package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/eventbus"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/lease"
)

// Step result statuses. A skip is a successful no-op with a reason, not
// an error.
const (
	StepStatusCompleted = "completed"
	StepStatusSkipped   = "skipped"
)

// SkipReasonDispatchInProgress marks a transient skip: another trigger
// holds the dispatch lease and its outcome is not yet known. Callers
// must not treat the step as settled.
const SkipReasonDispatchInProgress = "dispatch already in progress"

// dispatchLeaseTTL bounds how long a step trigger holds its exclusive
// lease. Generously above one engine pass so a slow mail server cannot
// let a concurrent trigger slip through.
const dispatchLeaseTTL = 30 * time.Second

// CompleteStepCommand triggers the side effects of one onboarding step
// for one candidate.
type CompleteStepCommand struct {
	CandidateID uuid.UUID
	StepNumber  int
	ActorID     string

	// Attachments are caller-supplied file references. They take
	// priority over any stored attachment sources.
	Attachments []string
}

// StepResult reports how a step trigger ended.
type StepResult struct {
	Status string
	Reason string
}

// CompleteStepHandler executes a step: guard, message dispatch, marker
// update, event completion, audit, cascade. The message send is the
// commit point; everything after it is best-effort and logged.
type CompleteStepHandler struct {
	candidates  domain.CandidateRepository
	templates   domain.StepTemplateRepository
	messages    domain.MessageRepository
	activity    domain.ActivityRepository
	guard       *services.DispatchGuard
	scheduler   *services.CalendarEventScheduler
	cascade     *services.CascadeScanner
	attachments *services.AttachmentResolver
	renderer    *services.TemplateRenderer
	store       services.TemplateStore
	mailer      services.MessageProvider
	leases      lease.Store
	publisher   eventbus.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewCompleteStepHandler creates a CompleteStepHandler.
func NewCompleteStepHandler(
	candidates domain.CandidateRepository,
	templates domain.StepTemplateRepository,
	messages domain.MessageRepository,
	activity domain.ActivityRepository,
	guard *services.DispatchGuard,
	scheduler *services.CalendarEventScheduler,
	cascade *services.CascadeScanner,
	attachments *services.AttachmentResolver,
	renderer *services.TemplateRenderer,
	store services.TemplateStore,
	mailer services.MessageProvider,
	leases lease.Store,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *CompleteStepHandler {
	return &CompleteStepHandler{
		candidates:  candidates,
		templates:   templates,
		messages:    messages,
		activity:    activity,
		guard:       guard,
		scheduler:   scheduler,
		cascade:     cascade,
		attachments: attachments,
		renderer:    renderer,
		store:       store,
		mailer:      mailer,
		leases:      leases,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Handle executes the CompleteStepCommand.
func (h *CompleteStepHandler) Handle(ctx context.Context, cmd CompleteStepCommand) (*StepResult, error) {
	leaseKey := fmt.Sprintf("dispatch:%s:%d", cmd.CandidateID, cmd.StepNumber)
	acquired, err := h.leases.Acquire(ctx, leaseKey, dispatchLeaseTTL)
	if err != nil {
		// The lease narrows a race the guard and the store's unique
		// index already cover, so a lease store outage degrades rather
		// than blocks.
		h.logger.Warn("lease acquire failed, proceeding unleased",
			slog.String("key", leaseKey), slog.String("error", err.Error()))
	} else if !acquired {
		return &StepResult{Status: StepStatusSkipped, Reason: SkipReasonDispatchInProgress}, nil
	} else {
		defer func() {
			if err := h.leases.Release(ctx, leaseKey); err != nil {
				h.logger.Warn("lease release failed", slog.String("key", leaseKey), slog.String("error", err.Error()))
			}
		}()
	}

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
	kind := tmpl.Kind()
	spec := kind.Spec()

	guard, err := h.guard.Check(ctx, candidate, cmd.StepNumber, kind)
	if err != nil {
		return nil, err
	}
	if guard.Skip {
		h.appendActivity(ctx, candidate.ID(), cmd.StepNumber, domain.ActivityStepSkipped, cmd.ActorID, guard.Reason)
		return &StepResult{Status: StepStatusSkipped, Reason: guard.Reason}, nil
	}

	if tmpl.EmailTemplateID() == "" {
		return nil, &domain.MissingEmailTemplateError{
			Department: candidate.Department(),
			StepNumber: cmd.StepNumber,
			Kind:       kind,
		}
	}

	refs, err := h.attachments.Resolve(ctx, candidate, cmd.StepNumber, kind, cmd.Attachments)
	if err != nil {
		return nil, err
	}

	emailTmpl, err := h.store.FindEmailTemplate(ctx, tmpl.EmailTemplateID())
	if err != nil {
		return nil, fmt.Errorf("loading email template: %w", err)
	}
	if emailTmpl == nil {
		return nil, &domain.MissingEmailTemplateError{
			Department: candidate.Department(),
			StepNumber: cmd.StepNumber,
			Kind:       kind,
		}
	}

	subject, body := h.renderer.Render(emailTmpl, candidate)

	message := domain.NewMessage(candidate.ID(), spec.MessageType, candidate.Email(), subject, refs)
	if err := h.messages.Save(ctx, message); err != nil {
		return nil, fmt.Errorf("recording message: %w", err)
	}

	if err := h.mailer.Send(ctx, services.OutboundMessage{
		To:          candidate.Email(),
		Subject:     subject,
		Body:        body,
		Attachments: refs,
	}); err != nil {
		message.MarkFailed(err.Error())
		if saveErr := h.messages.Save(ctx, message); saveErr != nil {
			h.logger.Error("recording failed message", slog.String("error", saveErr.Error()))
		}
		h.appendActivity(ctx, candidate.ID(), cmd.StepNumber, domain.ActivityStepFailed, cmd.ActorID, err.Error())
		return nil, fmt.Errorf("sending %s message: %w", spec.MessageType, err)
	}

	message.MarkSent()
	if err := h.messages.Save(ctx, message); err != nil {
		h.logger.Warn("recording sent message", slog.String("error", err.Error()))
	}

	now := h.now()

	newlyMarked := false
	if spec.Marker != domain.MarkerNone {
		newlyMarked = candidate.ApplyMarker(spec.Marker, now)
		if newlyMarked {
			if err := h.candidates.Save(ctx, candidate); err != nil {
				h.logger.Error("saving candidate marker",
					slog.String("candidate_id", candidate.ID().String()),
					slog.String("error", err.Error()))
			}
		}
	}

	var domainEvents []sharedDomain.DomainEvent
	completed, err := h.scheduler.Complete(ctx, candidate.ID(), cmd.StepNumber, now)
	switch {
	case err == nil:
		domainEvents = append(domainEvents, completed.DomainEvents()...)
		completed.ClearDomainEvents()
	case errors.Is(err, domain.ErrEventNotFound):
		// No live event is normal for manually triggered steps.
		domainEvents = append(domainEvents, domain.NewStepEventCompleted(uuid.Nil, candidate.ID(), cmd.StepNumber, kind))
	default:
		h.logger.Warn("completing calendar event",
			slog.String("candidate_id", candidate.ID().String()),
			slog.Int("step_number", cmd.StepNumber),
			slog.String("error", err.Error()))
	}

	h.appendActivity(ctx, candidate.ID(), cmd.StepNumber, domain.ActivityStepCompleted, cmd.ActorID, string(kind))

	if kind == domain.StepKindOfferLetter && newlyMarked {
		scheduled, err := h.cascade.ScheduleOfferFollowups(ctx, candidate)
		if err != nil {
			h.logger.Warn("offer cascade failed",
				slog.String("candidate_id", candidate.ID().String()),
				slog.String("error", err.Error()))
		} else if len(scheduled) > 0 {
			h.appendActivity(ctx, candidate.ID(), cmd.StepNumber, domain.ActivityStepScheduled, cmd.ActorID,
				fmt.Sprintf("cascade scheduled steps %v", scheduled))
			domainEvents = append(domainEvents, domain.NewCascadeTriggered(candidate.ID(), cmd.StepNumber, scheduled))
		}
	}

	publishEvents(ctx, h.publisher, h.logger, domainEvents...)

	return &StepResult{Status: StepStatusCompleted}, nil
}

func (h *CompleteStepHandler) appendActivity(ctx context.Context, candidateID uuid.UUID, stepNumber int, action domain.ActivityAction, actorID, detail string) {
	entry := domain.NewActivityEntry(candidateID, stepNumber, action, actorID, detail)
	if err := h.activity.Append(ctx, entry); err != nil {
		h.logger.Warn("appending activity entry",
			slog.String("candidate_id", candidateID.String()),
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
	}
}

// publishEvents serializes domain events onto the bus. Publishing is
// best-effort: consumers are notification-only, the store is the source
// of truth.
func publishEvents(ctx context.Context, publisher eventbus.Publisher, logger *slog.Logger, events ...sharedDomain.DomainEvent) {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			logger.Warn("marshaling domain event", slog.String("routing_key", event.RoutingKey()), slog.String("error", err.Error()))
			continue
		}
		if err := publisher.Publish(ctx, event.RoutingKey(), payload); err != nil {
			logger.Warn("publishing domain event", slog.String("routing_key", event.RoutingKey()), slog.String("error", err.Error()))
		}
	}
}
