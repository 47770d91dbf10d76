package services

import (
	"context"
	"time"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// DefaultDebounceWindow suppresses duplicate dispatches created within
// this window, e.g. a manual click racing a scheduler tick.
const DefaultDebounceWindow = 5 * time.Minute

// GuardResult reports whether a step's side effects should be skipped.
type GuardResult struct {
	Skip   bool
	Reason string
}

// DispatchGuard decides whether a step's side effects already happened.
type DispatchGuard struct {
	events   domain.CalendarEventRepository
	messages domain.MessageRepository
	debounce time.Duration
	now      func() time.Time
}

// NewDispatchGuard creates a dispatch guard with the given debounce
// window; zero means DefaultDebounceWindow.
func NewDispatchGuard(events domain.CalendarEventRepository, messages domain.MessageRepository, debounce time.Duration) *DispatchGuard {
	if debounce <= 0 {
		debounce = DefaultDebounceWindow
	}
	return &DispatchGuard{
		events:   events,
		messages: messages,
		debounce: debounce,
		now:      time.Now,
	}
}

// Check runs the dedup and business guards for a step. A Skip result is
// not an error; the engine returns it as a structured no-op.
func (g *DispatchGuard) Check(ctx context.Context, candidate *domain.Candidate, stepNumber int, kind domain.StepKind) (GuardResult, error) {
	spec := kind.Spec()

	// Business guard: reminder steps are pointless once the prior
	// document came back signed, regardless of timing.
	if spec.SkipWhenSigned && candidate.OfferSigned() {
		return GuardResult{Skip: true, Reason: "offer already signed"}, nil
	}

	// Re-trigger of an already finished step: a COMPLETED event plus a
	// delivered message of the same type means everything already ran.
	completed, err := g.events.ExistsCompleted(ctx, candidate.ID(), stepNumber)
	if err != nil {
		return GuardResult{}, err
	}
	if completed {
		delivered, err := g.messages.ExistsDelivered(ctx, candidate.ID(), spec.MessageType)
		if err != nil {
			return GuardResult{}, err
		}
		if delivered {
			return GuardResult{Skip: true, Reason: "step already completed"}, nil
		}
	}

	// Short-window de-bounce against near-simultaneous duplicate
	// invocations.
	cutoff := g.now().Add(-g.debounce)
	recent, err := g.messages.ExistsRecent(ctx, candidate.ID(), spec.MessageType, cutoff)
	if err != nil {
		return GuardResult{}, err
	}
	if recent {
		return GuardResult{Skip: true, Reason: "message recently dispatched"}, nil
	}

	return GuardResult{}, nil
}
