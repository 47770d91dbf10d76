package services

import (
	"context"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

// AttachmentResolver determines which file references accompany a
// step's outbound message, in strict priority order: caller-supplied
// files, the matching event's attachment list, the event's single
// attachment field, and (for the first step only) the candidate's
// persisted offer-letter file.
type AttachmentResolver struct {
	events domain.CalendarEventRepository
}

// NewAttachmentResolver creates an attachment resolver.
func NewAttachmentResolver(events domain.CalendarEventRepository) *AttachmentResolver {
	return &AttachmentResolver{events: events}
}

// Resolve returns the ordered, deduplicated attachment references for
// the step. Callers needing "the" attachment use the first element. An
// empty result is legitimate unless the step kind structurally requires
// a document, in which case MissingRequiredAttachmentError is returned.
func (r *AttachmentResolver) Resolve(
	ctx context.Context,
	candidate *domain.Candidate,
	stepNumber int,
	kind domain.StepKind,
	supplied []string,
) ([]string, error) {
	var refs []string
	seen := make(map[string]struct{})

	add := func(ref string) {
		if ref == "" {
			return
		}
		if _, dup := seen[ref]; dup {
			return
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}

	for _, ref := range supplied {
		add(ref)
	}

	event, err := r.events.FindActiveByCandidateAndStep(ctx, candidate.ID(), stepNumber)
	if err != nil {
		return nil, err
	}
	if event != nil {
		for _, ref := range event.AttachmentRefs() {
			add(ref)
		}
		add(event.AttachmentRef())
	}

	// The offer letter lives on the candidate record for step 1 only.
	if stepNumber == 1 {
		add(candidate.OfferLetterFile())
	}

	if len(refs) == 0 && kind.Spec().RequiresAttachment {
		return nil, &domain.MissingRequiredAttachmentError{
			CandidateID: candidate.ID(),
			StepNumber:  stepNumber,
			Kind:        kind,
		}
	}

	return refs, nil
}
