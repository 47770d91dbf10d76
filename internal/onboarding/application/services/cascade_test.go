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

func TestCascadeScanner_ScheduleOfferFollowups(t *testing.T) {
	ctx := context.Background()

	t.Run("schedules every offer-anchored auto step", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		templates := new(mockStepTemplateRepository)
		candidate := testCandidate(t)
		candidate.ApplyMarker(domain.MarkerOfferSent, time.Date(2025, 5, 2, 14, 0, 0, 0, InstitutionZone))

		departmentTemplates := []*domain.StepTemplate{
			testTemplate(t, 1, domain.StepKindOfferLetter, domain.MethodManual, 0, "", ""),
			testTemplate(t, 2, domain.StepKindOfferReminder, domain.MethodOfferLetter, 2, "", "15:00"),
			testTemplate(t, 3, domain.StepKindDocumentRequest, domain.MethodOfferLetter, 3, "", "11:00"),
			testTemplate(t, 4, domain.StepKindHRInduction, domain.MethodDOJ, 0, "10:00", ""),
			testTemplate(t, 7, domain.StepKindCheckIn, domain.MethodOfferLetter, 30, "", "16:00"),
		}

		templates.On("FindByDepartment", ctx, candidate.Department()).Return(departmentTemplates, nil)
		events.On("FindEarliestByCandidateAndKind", ctx, candidate.ID(), domain.StepKindOfferLetter).
			Return(nil, nil)
		events.On("FindActiveByCandidateAndStep", ctx, candidate.ID(), mock.AnythingOfType("int")).
			Return(nil, nil)
		events.On("Save", ctx, mock.AnythingOfType("*domain.CalendarEvent")).Return(nil)

		scheduler := NewCalendarEventScheduler(events, NewAnchorDateResolver(events), nil, testLogger())
		scanner := NewCascadeScanner(templates, scheduler, testLogger())

		scheduled, err := scanner.ScheduleOfferFollowups(ctx, candidate)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3, 7}, scheduled)
	})

	t.Run("existing events are not scheduled again", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		templates := new(mockStepTemplateRepository)
		candidate := testCandidate(t)
		candidate.ApplyMarker(domain.MarkerOfferSent, time.Date(2025, 5, 2, 14, 0, 0, 0, InstitutionZone))

		reminder := testTemplate(t, 2, domain.StepKindOfferReminder, domain.MethodOfferLetter, 2, "", "15:00")
		existing, err := domain.NewCalendarEvent(candidate.ID(), 2, domain.StepKindOfferReminder,
			"Offer Reminder", "",
			time.Date(2025, 5, 4, 15, 0, 0, 0, InstitutionZone),
			time.Date(2025, 5, 4, 15, 30, 0, 0, InstitutionZone))
		require.NoError(t, err)

		templates.On("FindByDepartment", ctx, candidate.Department()).
			Return([]*domain.StepTemplate{reminder}, nil)
		events.On("FindActiveByCandidateAndStep", ctx, candidate.ID(), 2).Return(existing, nil)

		scheduler := NewCalendarEventScheduler(events, NewAnchorDateResolver(events), nil, testLogger())
		scanner := NewCascadeScanner(templates, scheduler, testLogger())

		scheduled, err := scanner.ScheduleOfferFollowups(ctx, candidate)
		require.NoError(t, err)
		assert.Empty(t, scheduled)
		events.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("one failing template does not abort the scan", func(t *testing.T) {
		events := new(mockCalendarEventRepository)
		templates := new(mockStepTemplateRepository)
		candidate := testCandidate(t)
		// No offer marker: every offer-anchored template fails anchor
		// resolution, but the scan itself succeeds.
		departmentTemplates := []*domain.StepTemplate{
			testTemplate(t, 2, domain.StepKindOfferReminder, domain.MethodOfferLetter, 2, "", "15:00"),
		}

		templates.On("FindByDepartment", ctx, candidate.Department()).Return(departmentTemplates, nil)
		events.On("FindActiveByCandidateAndStep", ctx, candidate.ID(), 2).Return(nil, nil)
		events.On("FindEarliestByCandidateAndKind", ctx, candidate.ID(), domain.StepKindOfferLetter).
			Return(nil, nil)

		scheduler := NewCalendarEventScheduler(events, NewAnchorDateResolver(events), nil, testLogger())
		scanner := NewCascadeScanner(templates, scheduler, testLogger())

		scheduled, err := scanner.ScheduleOfferFollowups(ctx, candidate)
		require.NoError(t, err)
		assert.Empty(t, scheduled)
	})
}
