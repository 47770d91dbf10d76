package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/joinflow/joinflow/internal/onboarding/domain"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

// mockCalendarEventRepository is a mock implementation of
// domain.CalendarEventRepository.
type mockCalendarEventRepository struct {
	mock.Mock
}

func (m *mockCalendarEventRepository) Save(ctx context.Context, event *domain.CalendarEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockCalendarEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}

func (m *mockCalendarEventRepository) FindActiveByCandidateAndStep(ctx context.Context, candidateID uuid.UUID, stepNumber int) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, candidateID, stepNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}

func (m *mockCalendarEventRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*domain.CalendarEvent, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CalendarEvent), args.Error(1)
}

func (m *mockCalendarEventRepository) ExistsCompleted(ctx context.Context, candidateID uuid.UUID, stepNumber int) (bool, error) {
	args := m.Called(ctx, candidateID, stepNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockCalendarEventRepository) FindEarliestByCandidateAndKind(ctx context.Context, candidateID uuid.UUID, kind domain.StepKind) (*domain.CalendarEvent, error) {
	args := m.Called(ctx, candidateID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarEvent), args.Error(1)
}

func (m *mockCalendarEventRepository) FindDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.CalendarEvent, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CalendarEvent), args.Error(1)
}

// mockMessageRepository is a mock implementation of
// domain.MessageRepository.
type mockMessageRepository struct {
	mock.Mock
}

func (m *mockMessageRepository) Save(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMessageRepository) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*domain.Message, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMessageRepository) ExistsDelivered(ctx context.Context, candidateID uuid.UUID, messageType domain.MessageType) (bool, error) {
	args := m.Called(ctx, candidateID, messageType)
	return args.Bool(0), args.Error(1)
}

func (m *mockMessageRepository) ExistsRecent(ctx context.Context, candidateID uuid.UUID, messageType domain.MessageType, cutoff time.Time) (bool, error) {
	args := m.Called(ctx, candidateID, messageType, cutoff)
	return args.Bool(0), args.Error(1)
}

// mockStepTemplateRepository is a mock implementation of
// domain.StepTemplateRepository.
type mockStepTemplateRepository struct {
	mock.Mock
}

func (m *mockStepTemplateRepository) Save(ctx context.Context, template *domain.StepTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockStepTemplateRepository) FindByDepartmentAndStep(ctx context.Context, department sharedDomain.DepartmentID, stepNumber int) (*domain.StepTemplate, error) {
	args := m.Called(ctx, department, stepNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StepTemplate), args.Error(1)
}

func (m *mockStepTemplateRepository) FindByDepartment(ctx context.Context, department sharedDomain.DepartmentID) ([]*domain.StepTemplate, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StepTemplate), args.Error(1)
}

func (m *mockStepTemplateRepository) FindAutoByMethod(ctx context.Context, method domain.SchedulingMethod) ([]*domain.StepTemplate, error) {
	args := m.Called(ctx, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StepTemplate), args.Error(1)
}

func (m *mockStepTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockCalendarProvider is a mock implementation of CalendarProvider.
type mockCalendarProvider struct {
	mock.Mock
}

func (m *mockCalendarProvider) CreateEvent(ctx context.Context, req CreateEventRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockCalendarProvider) UpdateEvent(ctx context.Context, externalID string, start, end time.Time) error {
	args := m.Called(ctx, externalID, start, end)
	return args.Error(0)
}

func (m *mockCalendarProvider) CancelEvent(ctx context.Context, externalID string) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}
