package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
)

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Save(ctx context.Context, event *domain.CalendarEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}

func (m *mockEventRepo) FindActiveByCandidateAndStep(ctx context.Context, candidateID uuid.UUID, stepNumber int) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, candidateID, stepNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}

func (m *mockEventRepo) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*domain.CalendarEvent, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CalendarEvent), args.Error(1)
}

func (m *mockEventRepo) ExistsCompleted(ctx context.Context, candidateID uuid.UUID, stepNumber int) (bool, error) {
	args := m.Called(ctx, candidateID, stepNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockEventRepo) FindEarliestByCandidateAndKind(ctx context.Context, candidateID uuid.UUID, kind domain.StepKind) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, candidateID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}

func (m *mockEventRepo) FindDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.CalendarEvent, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CalendarEvent), args.Error(1)
}

func TestGetScheduleHandler_Handle(t *testing.T) {
	ctx := context.Background()
	candidateID := uuid.New()
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	newEvent := func(t *testing.T, stepNumber int, start time.Time) *domain.CalendarEvent {
		t.Helper()
		event, err := domain.NewCalendarEvent(candidateID, stepNumber, domain.StepKindHRInduction,
			"HR Induction", "", start, start.Add(time.Hour))
		require.NoError(t, err)
		return event
	}

	t.Run("returns live events sorted by start", func(t *testing.T) {
		repo := new(mockEventRepo)

		later := newEvent(t, 5, base.AddDate(0, 0, 3))
		earlier := newEvent(t, 4, base)
		done := newEvent(t, 3, base.AddDate(0, 0, -1))
		require.NoError(t, done.Complete(base))

		repo.On("FindByCandidate", ctx, candidateID).
			Return([]*domain.CalendarEvent{later, done, earlier}, nil)

		result, err := NewGetScheduleHandler(repo).Handle(ctx, GetScheduleQuery{CandidateID: candidateID})
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, 4, result[0].StepNumber())
		assert.Equal(t, 5, result[1].StepNumber())
	})

	t.Run("includes terminal events on request", func(t *testing.T) {
		repo := new(mockEventRepo)

		live := newEvent(t, 4, base)
		done := newEvent(t, 3, base.AddDate(0, 0, -1))
		require.NoError(t, done.Complete(base))

		repo.On("FindByCandidate", ctx, candidateID).
			Return([]*domain.CalendarEvent{live, done}, nil)

		result, err := NewGetScheduleHandler(repo).Handle(ctx, GetScheduleQuery{CandidateID: candidateID, IncludeCompleted: true})
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})
}
