package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/joinflow/joinflow/internal/onboarding/application"
	"github.com/joinflow/joinflow/internal/onboarding/application/commands"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// DefaultSweepInterval is the default interval between due-event sweeps.
const DefaultSweepInterval = 5 * time.Minute

// DefaultScheduleCron runs the template scan at the top of every hour.
const DefaultScheduleCron = "0 */1 * * *"

// DefaultBatchSize bounds how many due events one sweep processes.
const DefaultBatchSize = 50

// schedulerActor identifies automatic triggers in the activity feed.
const schedulerActor = "scheduler"

// ScheduleWorker drives the engine's two background passes: a cron
// scan that materializes calendar events from auto templates, and a
// sweep that fires due events. The two passes are deliberately
// decoupled; scheduling can run hours before dispatch.
type ScheduleWorker struct {
	service    *application.Service
	candidates domain.CandidateRepository
	templates  domain.StepTemplateRepository
	events     domain.CalendarEventRepository

	sweepInterval time.Duration
	batchSize     int
	scheduleCron  string

	logger  *slog.Logger
	running atomic.Bool
	stopCh  chan struct{}
	now     func() time.Time
}

// NewScheduleWorker creates a schedule worker.
func NewScheduleWorker(
	service *application.Service,
	candidates domain.CandidateRepository,
	templates domain.StepTemplateRepository,
	events domain.CalendarEventRepository,
	sweepInterval time.Duration,
	batchSize int,
	scheduleCron string,
	logger *slog.Logger,
) *ScheduleWorker {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if scheduleCron == "" {
		scheduleCron = DefaultScheduleCron
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleWorker{
		service:       service,
		candidates:    candidates,
		templates:     templates,
		events:        events,
		sweepInterval: sweepInterval,
		batchSize:     batchSize,
		scheduleCron:  scheduleCron,
		logger:        logger,
		stopCh:        make(chan struct{}),
		now:           time.Now,
	}
}

// Run starts the worker and blocks until the context is cancelled or
// Stop() is called.
func (w *ScheduleWorker) Run(ctx context.Context) error {
	w.running.Store(true)
	w.logger.Info("schedule worker started",
		"sweep_interval", w.sweepInterval,
		"schedule_cron", w.scheduleCron,
	)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(w.scheduleCron, func() { w.RunSchedulePass(ctx) }); err != nil {
		w.running.Store(false)
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Run both passes immediately on start.
	w.RunSchedulePass(ctx)
	w.RunSweep(ctx)

	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.running.Store(false)
			w.logger.Info("schedule worker stopped (context cancelled)")
			return ctx.Err()
		case <-w.stopCh:
			w.running.Store(false)
			w.logger.Info("schedule worker stopped (stop signal)")
			return nil
		case <-ticker.C:
			w.RunSweep(ctx)
		}
	}
}

// Stop signals the worker to stop gracefully.
func (w *ScheduleWorker) Stop() {
	if w.running.Load() {
		close(w.stopCh)
	}
}

// IsRunning reports whether the worker loop is active.
func (w *ScheduleWorker) IsRunning() bool {
	return w.running.Load()
}

// RunSchedulePass scans auto templates and ensures calendar events
// exist for every candidate whose anchor date is known. Failures are
// per-candidate; one broken record never stalls the pass.
func (w *ScheduleWorker) RunSchedulePass(ctx context.Context) {
	w.logger.Debug("starting schedule pass")

	for _, method := range []domain.SchedulingMethod{domain.MethodDOJ, domain.MethodOfferLetter} {
		templates, err := w.templates.FindAutoByMethod(ctx, method)
		if err != nil {
			w.logger.Error("loading auto templates", "method", method, "error", err)
			continue
		}
		for _, tmpl := range templates {
			w.schedulePassForTemplate(ctx, tmpl)
		}
	}
}

func (w *ScheduleWorker) schedulePassForTemplate(ctx context.Context, tmpl *domain.StepTemplate) {
	candidates, err := w.candidates.FindByDepartment(ctx, tmpl.Department())
	if err != nil {
		w.logger.Error("loading department candidates",
			"department", tmpl.Department().String(), "error", err)
		return
	}

	for _, candidate := range candidates {
		result, err := w.service.ScheduleStep(ctx, commands.ScheduleStepCommand{
			CandidateID: candidate.ID(),
			StepNumber:  tmpl.StepNumber(),
			ActorID:     schedulerActor,
		})
		if err != nil {
			w.logger.Warn("scheduling step",
				"candidate_id", candidate.ID(),
				"step_number", tmpl.StepNumber(),
				"error", err)
			continue
		}
		if result.Created {
			w.logger.Info("scheduled step",
				"candidate_id", candidate.ID(),
				"step_number", tmpl.StepNumber())
		}
	}
}

// RunSweep fires every live calendar event whose start time has
// elapsed. Each due event becomes a step trigger; the dispatch guard
// inside the engine keeps repeats harmless.
func (w *ScheduleWorker) RunSweep(ctx context.Context) {
	w.logger.Debug("starting due-event sweep")

	due, err := w.events.FindDueBefore(ctx, w.now(), w.batchSize)
	if err != nil {
		w.logger.Error("loading due events", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	w.logger.Info("sweeping due events", "count", len(due))

	for _, event := range due {
		result, err := w.service.CompleteStep(ctx, commands.CompleteStepCommand{
			CandidateID: event.CandidateID(),
			StepNumber:  event.StepNumber(),
			ActorID:     schedulerActor,
		})
		if err != nil {
			w.logger.Warn("dispatching due step",
				"candidate_id", event.CandidateID(),
				"step_number", event.StepNumber(),
				"error", err)
			continue
		}
		if result.Status == commands.StepStatusSkipped {
			w.logger.Debug("due step skipped",
				"candidate_id", event.CandidateID(),
				"step_number", event.StepNumber(),
				"reason", result.Reason)
			// A lease-held skip means a concurrent trigger is mid-flight;
			// leave the event live so a failed dispatch gets re-swept.
			if result.Reason == commands.SkipReasonDispatchInProgress {
				continue
			}
			// A business skip stays skipped forever and would re-fire
			// every sweep; close the event out so the backlog drains.
			if _, err := w.service.Scheduler.Complete(ctx, event.CandidateID(), event.StepNumber(), w.now()); err != nil {
				w.logger.Warn("closing skipped due event", "error", err)
			}
		}
	}
}
