package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// CascadeScanner schedules the follow-up steps that become schedulable
// the moment an offer letter goes out. Offer-anchored templates cannot
// be scheduled before the anchor exists, so the engine runs this scan
// eagerly instead of waiting for the next scheduler pass.
type CascadeScanner struct {
	templates domain.StepTemplateRepository
	scheduler *CalendarEventScheduler
	logger    *slog.Logger
}

// NewCascadeScanner creates a cascade scanner.
func NewCascadeScanner(
	templates domain.StepTemplateRepository,
	scheduler *CalendarEventScheduler,
	logger *slog.Logger,
) *CascadeScanner {
	return &CascadeScanner{
		templates: templates,
		scheduler: scheduler,
		logger:    logger,
	}
}

// ScheduleOfferFollowups schedules every offer-anchored auto step in
// the candidate's department and returns the step numbers of the
// events it created. Individual template failures are logged and do
// not abort the scan.
func (c *CascadeScanner) ScheduleOfferFollowups(ctx context.Context, candidate *domain.Candidate) ([]int, error) {
	templates, err := c.templates.FindByDepartment(ctx, candidate.Department())
	if err != nil {
		return nil, fmt.Errorf("loading department templates: %w", err)
	}

	var scheduled []int
	for _, tmpl := range templates {
		if tmpl.Method() != domain.MethodOfferLetter || !tmpl.IsAuto() {
			continue
		}
		_, created, err := c.scheduler.Schedule(ctx, candidate, tmpl)
		if err != nil {
			c.logger.Warn("cascade scheduling failed",
				slog.String("candidate_id", candidate.ID().String()),
				slog.Int("step_number", tmpl.StepNumber()),
				slog.String("error", err.Error()))
			continue
		}
		if created {
			scheduled = append(scheduled, tmpl.StepNumber())
		}
	}
	return scheduled, nil
}
