package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(t *testing.T) *domain.CalendarEvent {
	t.Helper()
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	evt, err := domain.NewCalendarEvent(uuid.New(), 1, domain.StepKindOfferLetter,
		"Offer letter: Priya Nair", "Send the offer letter", start, start.Add(30*time.Minute))
	require.NoError(t, err)
	return evt
}

func TestNewCalendarEvent(t *testing.T) {
	evt := newTestEvent(t)
	assert.Equal(t, domain.EventStatusScheduled, evt.Status())
	assert.False(t, evt.IsCompleted())
	assert.Empty(t, evt.ExternalID())
}

func TestNewCalendarEvent_Validation(t *testing.T) {
	start := time.Now()

	_, err := domain.NewCalendarEvent(uuid.New(), 0, domain.StepKindTraining, "t", "", start, start.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidStepNumber)

	_, err = domain.NewCalendarEvent(uuid.New(), 1, domain.StepKindTraining, "t", "", start, start)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestCalendarEvent_Complete(t *testing.T) {
	evt := newTestEvent(t)
	now := time.Now().UTC()

	require.NoError(t, evt.Complete(now))
	assert.True(t, evt.IsCompleted())
	require.NotNil(t, evt.CompletedAt())
	assert.Equal(t, now, *evt.CompletedAt())

	// Completing twice is rejected.
	assert.ErrorIs(t, evt.Complete(now), domain.ErrEventAlreadyCompleted)

	// Cancelled events stay cancelled.
	gone := newTestEvent(t)
	require.NoError(t, gone.Cancel("candidate withdrew"))
	assert.ErrorIs(t, gone.Complete(now), domain.ErrEventCancelled)
	assert.Equal(t, domain.EventStatusCancelled, gone.Status())
	assert.Nil(t, gone.CompletedAt())
}

func TestCalendarEvent_Complete_EmitsEvent(t *testing.T) {
	evt := newTestEvent(t)
	require.NoError(t, evt.Complete(time.Now().UTC()))

	events := evt.DomainEvents()
	require.Len(t, events, 1)
	completed, ok := events[0].(*domain.StepEventCompleted)
	require.True(t, ok)
	assert.Equal(t, evt.CandidateID(), completed.CandidateID)
	assert.Equal(t, 1, completed.StepNumber)
	assert.Equal(t, domain.RoutingKeyStepCompleted, completed.RoutingKey())
}

func TestCalendarEvent_Reschedule(t *testing.T) {
	evt := newTestEvent(t)
	newStart := evt.StartTime().Add(24 * time.Hour)
	newEnd := newStart.Add(30 * time.Minute)

	require.NoError(t, evt.Reschedule(newStart, newEnd))
	assert.Equal(t, domain.EventStatusRescheduled, evt.Status())
	assert.Equal(t, newStart, evt.StartTime())
	assert.Equal(t, newEnd, evt.EndTime())

	t.Run("invalid range rejected", func(t *testing.T) {
		assert.ErrorIs(t, evt.Reschedule(newStart, newStart), domain.ErrInvalidTimeRange)
	})

	t.Run("completed event cannot move", func(t *testing.T) {
		done := newTestEvent(t)
		require.NoError(t, done.Complete(time.Now().UTC()))
		assert.ErrorIs(t, done.Reschedule(newStart, newEnd), domain.ErrEventAlreadyCompleted)
	})

	t.Run("cancelled event cannot move", func(t *testing.T) {
		gone := newTestEvent(t)
		require.NoError(t, gone.Cancel("candidate withdrew"))
		assert.ErrorIs(t, gone.Reschedule(newStart, newEnd), domain.ErrEventCancelled)
	})
}

func TestCalendarEvent_Cancel(t *testing.T) {
	evt := newTestEvent(t)
	require.NoError(t, evt.Cancel("step undone by HR"))
	assert.Equal(t, domain.EventStatusCancelled, evt.Status())
	assert.Equal(t, "step undone by HR", evt.CancellationReason())

	done := newTestEvent(t)
	require.NoError(t, done.Complete(time.Now().UTC()))
	assert.ErrorIs(t, done.Cancel("too late"), domain.ErrEventAlreadyCompleted)
}

func TestCalendarEvent_IsDue(t *testing.T) {
	evt := newTestEvent(t)
	before := evt.StartTime().Add(-time.Minute)
	after := evt.StartTime().Add(time.Minute)

	assert.False(t, evt.IsDue(before))
	assert.True(t, evt.IsDue(evt.StartTime()))
	assert.True(t, evt.IsDue(after))

	require.NoError(t, evt.Cancel("withdrawn"))
	assert.False(t, evt.IsDue(after), "cancelled events are never due")
}
