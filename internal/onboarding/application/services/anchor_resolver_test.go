package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

func TestAnchorDateResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("schedules relative to joining date with negative offset", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		resolver := NewAnchorDateResolver(events)

		doj := time.Date(2025, 6, 10, 0, 0, 0, 0, InstitutionZone)
		candidate := testCandidateWithDOJ(t, doj)
		tmpl := testTemplate(t, 3, domain.StepKindDocumentRequest, domain.MethodDOJ, -1, "11:00", "")

		start, end, err := resolver.Resolve(ctx, candidate, tmpl)
		require.NoError(t, err)

		want := time.Date(2025, 6, 9, 11, 0, 0, 0, InstitutionZone)
		assert.True(t, start.Equal(want), "got %s, want %s", start, want)
		assert.Equal(t, 30*time.Minute, end.Sub(start))
	})

	t.Run("prefers actual joining date over expected", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		resolver := NewAnchorDateResolver(events)

		candidate := testCandidateWithDOJ(t, time.Date(2025, 6, 10, 0, 0, 0, 0, InstitutionZone))
		candidate.SetActualJoiningDate(time.Date(2025, 6, 17, 0, 0, 0, 0, InstitutionZone))
		tmpl := testTemplate(t, 4, domain.StepKindHRInduction, domain.MethodDOJ, 0, "10:00", "")

		start, _, err := resolver.Resolve(ctx, candidate, tmpl)
		require.NoError(t, err)
		assert.Equal(t, 17, start.Day())
	})

	t.Run("uses earliest offer event as offer anchor", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		resolver := NewAnchorDateResolver(events)

		candidate := testCandidate(t)
		offerStart := time.Date(2025, 5, 1, 14, 0, 0, 0, InstitutionZone)
		offerEvent, err := domain.NewCalendarEvent(
			candidate.ID(), 1, domain.StepKindOfferLetter,
			"Offer Letter", "", offerStart, offerStart.Add(30*time.Minute))
		require.NoError(t, err)

		events.On("FindEarliestByCandidateAndKind", ctx, candidate.ID(), domain.StepKindOfferLetter).
			Return(offerEvent, nil)

		tmpl := testTemplate(t, 2, domain.StepKindOfferReminder, domain.MethodOfferLetter, 3, "", "15:00")

		start, _, err := resolver.Resolve(ctx, candidate, tmpl)
		require.NoError(t, err)

		want := time.Date(2025, 5, 4, 15, 0, 0, 0, InstitutionZone)
		assert.True(t, start.Equal(want), "got %s, want %s", start, want)
		events.AssertExpectations(t)
	})

	t.Run("falls back to offer sent timestamp when no offer event", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		resolver := NewAnchorDateResolver(events)

		candidate := testCandidate(t)
		candidate.ApplyMarker(domain.MarkerOfferSent, time.Date(2025, 5, 2, 9, 30, 0, 0, InstitutionZone))

		events.On("FindEarliestByCandidateAndKind", ctx, candidate.ID(), domain.StepKindOfferLetter).
			Return(nil, nil)

		tmpl := testTemplate(t, 2, domain.StepKindOfferReminder, domain.MethodOfferLetter, 2, "", "15:00")

		start, _, err := resolver.Resolve(ctx, candidate, tmpl)
		require.NoError(t, err)
		assert.Equal(t, 4, start.Day())
		assert.Equal(t, 15, start.Hour())
	})

	t.Run("returns missing anchor error when joining date unset", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		resolver := NewAnchorDateResolver(events)

		candidate := testCandidate(t)
		tmpl := testTemplate(t, 4, domain.StepKindHRInduction, domain.MethodDOJ, 0, "10:00", "")

		_, _, err := resolver.Resolve(ctx, candidate, tmpl)

		var missing *domain.MissingAnchorError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, domain.MethodDOJ, missing.Method)
	})

	t.Run("returns missing anchor error when offer never sent", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		resolver := NewAnchorDateResolver(events)

		candidate := testCandidate(t)
		events.On("FindEarliestByCandidateAndKind", ctx, candidate.ID(), domain.StepKindOfferLetter).
			Return(nil, nil)

		tmpl := testTemplate(t, 2, domain.StepKindOfferReminder, domain.MethodOfferLetter, 2, "", "15:00")

		_, _, err := resolver.Resolve(ctx, candidate, tmpl)

		var missing *domain.MissingAnchorError
		require.ErrorAs(t, err, &missing)
	})

	t.Run("applies default times when template time unset", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		events.On("FindEarliestByCandidateAndKind", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, nil).Maybe()
		resolver := NewAnchorDateResolver(events)

		doj := time.Date(2025, 6, 10, 0, 0, 0, 0, InstitutionZone)
		candidate := testCandidateWithDOJ(t, doj)
		candidate.ApplyMarker(domain.MarkerOfferSent, time.Date(2025, 5, 2, 9, 30, 0, 0, InstitutionZone))

		// Manual method templates carry no active time; construct
		// method-scoped templates with the time left empty instead.
		offsetZero := 0
		dojTmpl, err := domain.NewStepTemplate(candidate.Department(), 4, domain.StepKindHRInduction, domain.MethodDOJ, &offsetZero, "", "", "tmpl-hr")
		require.NoError(t, err)
		offerTmpl, err := domain.NewStepTemplate(candidate.Department(), 2, domain.StepKindOfferReminder, domain.MethodOfferLetter, &offsetZero, "", "", "tmpl-rem")
		require.NoError(t, err)

		start, _, err := resolver.Resolve(ctx, candidate, dojTmpl)
		require.NoError(t, err)
		assert.Equal(t, 9, start.Hour())

		start, _, err = resolver.Resolve(ctx, candidate, offerTmpl)
		require.NoError(t, err)
		assert.Equal(t, 14, start.Hour())
	})
}
