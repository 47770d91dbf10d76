package services

import (
	"context"
	"time"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// InstitutionZone is the institution's fixed UTC+05:30 offset. The
// institution operates in a single timezone, so a fixed offset is a
// deliberate simplification over a full timezone database.
var InstitutionZone = time.FixedZone("UTC+05:30", 5*3600+30*60)

// Default wall-clock times applied when a template leaves the time of
// day for its active method unset.
var (
	defaultTimeDOJ   = domain.TimeOfDay{Hour: 9, Minute: 0}
	defaultTimeOffer = domain.TimeOfDay{Hour: 14, Minute: 0}
)

// AnchorDateResolver converts a step template's (method, offset, time
// of day) into the concrete start/end instants for a candidate.
type AnchorDateResolver struct {
	events domain.CalendarEventRepository
}

// NewAnchorDateResolver creates an anchor date resolver.
func NewAnchorDateResolver(events domain.CalendarEventRepository) *AnchorDateResolver {
	return &AnchorDateResolver{events: events}
}

// Resolve computes the scheduled window for a step. Returns
// MissingAnchorError when the template's anchor date is not yet set on
// the candidate; callers treat that as "not yet schedulable".
func (r *AnchorDateResolver) Resolve(ctx context.Context, candidate *domain.Candidate, tmpl *domain.StepTemplate) (time.Time, time.Time, error) {
	anchor, err := r.anchorDate(ctx, candidate, tmpl.Method())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	offset := 0
	if tmpl.DueDateOffsetDays() != nil {
		offset = *tmpl.DueDateOffsetDays()
	}
	// Calendar-day arithmetic; negative offsets mean "before anchor".
	scheduledDate := anchor.AddDate(0, 0, offset)

	tod, ok, err := domain.ParseTimeOfDay(tmpl.ActiveTime())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !ok {
		tod = r.defaultTime(tmpl.Method())
	}

	start := tod.OnDate(scheduledDate, InstitutionZone)
	end := start.Add(tmpl.Kind().Spec().Duration)
	return start, end, nil
}

// anchorDate selects the base instant for the scheduling method. The
// offer-letter anchor prefers the earliest offer-related calendar start
// over the candidate's offerSentAt timestamp.
func (r *AnchorDateResolver) anchorDate(ctx context.Context, candidate *domain.Candidate, method domain.SchedulingMethod) (time.Time, error) {
	if method == domain.MethodOfferLetter {
		if r.events != nil {
			earliest, err := r.events.FindEarliestByCandidateAndKind(ctx, candidate.ID(), domain.StepKindOfferLetter)
			if err != nil {
				return time.Time{}, err
			}
			if earliest != nil {
				return earliest.StartTime(), nil
			}
		}
		if sentAt := candidate.OfferSentAt(); sentAt != nil {
			return *sentAt, nil
		}
		return time.Time{}, &domain.MissingAnchorError{Method: method, CandidateID: candidate.ID()}
	}

	if joining := candidate.JoiningDate(); joining != nil {
		return *joining, nil
	}
	return time.Time{}, &domain.MissingAnchorError{Method: method, CandidateID: candidate.ID()}
}

func (r *AnchorDateResolver) defaultTime(method domain.SchedulingMethod) domain.TimeOfDay {
	if method == domain.MethodOfferLetter {
		return defaultTimeOffer
	}
	return defaultTimeDOJ
}
