package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

type mockCandidateRepo struct {
	mock.Mock
}

func (m *mockCandidateRepo) Save(ctx context.Context, candidate *domain.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}

func (m *mockCandidateRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *mockCandidateRepo) FindByDepartment(ctx context.Context, department sharedDomain.DepartmentID) ([]*domain.Candidate, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Candidate), args.Error(1)
}

func (m *mockCandidateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) Save(ctx context.Context, template *domain.StepTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockTemplateRepo) FindByDepartmentAndStep(ctx context.Context, department sharedDomain.DepartmentID, stepNumber int) (*domain.StepTemplate, error) {
	args := m.Called(ctx, department, stepNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StepTemplate), args.Error(1)
}

func (m *mockTemplateRepo) FindByDepartment(ctx context.Context, department sharedDomain.DepartmentID) ([]*domain.StepTemplate, error) {
	args := m.Called(ctx, department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StepTemplate), args.Error(1)
}

func (m *mockTemplateRepo) FindAutoByMethod(ctx context.Context, method domain.SchedulingMethod) ([]*domain.StepTemplate, error) {
	args := m.Called(ctx, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StepTemplate), args.Error(1)
}

func (m *mockTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Save(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockMessageRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) FindByCandidate(ctx context.Context, candidateID uuid.UUID) ([]*domain.Message, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) ExistsDelivered(ctx context.Context, candidateID uuid.UUID, messageType domain.MessageType) (bool, error) {
	args := m.Called(ctx, candidateID, messageType)
	return args.Bool(0), args.Error(1)
}

func (m *mockMessageRepo) ExistsRecent(ctx context.Context, candidateID uuid.UUID, messageType domain.MessageType, cutoff time.Time) (bool, error) {
	args := m.Called(ctx, candidateID, messageType, cutoff)
	return args.Bool(0), args.Error(1)
}

type mockActivityRepo struct {
	mock.Mock
}

func (m *mockActivityRepo) Append(ctx context.Context, entry *domain.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockActivityRepo) ListByCandidate(ctx context.Context, candidateID uuid.UUID, limit int) ([]*domain.ActivityEntry, error) {
	args := m.Called(ctx, candidateID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ActivityEntry), args.Error(1)
}

type mockTemplateStore struct {
	mock.Mock
}

func (m *mockTemplateStore) FindEmailTemplate(ctx context.Context, id string) (*services.EmailTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.EmailTemplate), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg services.OutboundMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
