package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-talent-pipeline/internal/domain"
	"go-talent-pipeline/internal/notification"
	"go-talent-pipeline/pkg/email"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepo) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) GetSkills(ctx context.Context, candidateID string) ([]domain.CandidateSkill, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateSkill), args.Error(1)
}

func (m *MockCandidateRepo) CountQualifications(ctx context.Context, candidateID string) (int, error) {
	args := m.Called(ctx, candidateID)
	return args.Int(0), args.Error(1)
}

func (m *MockCandidateRepo) GetContact(ctx context.Context, candidateID string) (*domain.CandidateContact, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateContact), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) GetSummary(ctx context.Context, jobID int64) (*domain.JobSummary, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobSummary), args.Error(1)
}

func (m *MockJobRepo) GetSkillRequirements(ctx context.Context, jobID int64) (*domain.JobSkillRequirements, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobSkillRequirements), args.Error(1)
}

type MockMailer struct {
	mock.Mock
	configured bool
}

func (m *MockMailer) SendStatusUpdateEmail(toEmail string, data email.StatusUpdateData) error {
	return m.Called(toEmail, data).Error(0)
}

func (m *MockMailer) IsConfigured() bool {
	return m.configured
}

func statusEvent() domain.TransitionEvent {
	return domain.TransitionEvent{
		Kind:           domain.EventStatusChanged,
		ApplicationID:  10,
		JobID:          7,
		CandidateID:    "cand-1",
		PreviousStatus: "Applied",
		NewStatus:      "Screening",
		OccurredAt:     time.Now(),
	}
}

func stubContact(candidates *MockCandidateRepo, jobs *MockJobRepo) {
	candidates.On("GetContact", mock.Anything, "cand-1").Return(&domain.CandidateContact{
		ID: "user-1", FullName: "Jane Doe", Email: "jane@example.com",
	}, nil)
	jobs.On("GetSummary", mock.Anything, int64(7)).Return(&domain.JobSummary{
		ID: 7, Title: "Backend Engineer", PositionID: 3,
	}, nil)
}

func TestDispatcherDelivery(t *testing.T) {
	t.Run("Should persist an in-app notification and send an email for a status change", func(t *testing.T) {
		notifications := new(MockNotificationRepo)
		candidates := new(MockCandidateRepo)
		jobs := new(MockJobRepo)
		mailer := &MockMailer{configured: true}

		stubContact(candidates, jobs)
		notifications.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)
		mailer.On("SendStatusUpdateEmail", "jane@example.com", mock.AnythingOfType("email.StatusUpdateData")).Return(nil)

		d := notification.NewDispatcher(8, notifications, candidates, jobs, mailer, zap.NewNop(), true)
		d.Start()
		d.Enqueue(statusEvent())
		d.Close()

		notifications.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.RecipientID == "user-1" && n.Kind == domain.EventStatusChanged && n.ID != ""
		}))
		mailer.AssertNumberOfCalls(t, "SendStatusUpdateEmail", 1)
	})

	t.Run("Should still send the email when the in-app write fails", func(t *testing.T) {
		notifications := new(MockNotificationRepo)
		candidates := new(MockCandidateRepo)
		jobs := new(MockJobRepo)
		mailer := &MockMailer{configured: true}

		stubContact(candidates, jobs)
		notifications.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
		mailer.On("SendStatusUpdateEmail", mock.Anything, mock.Anything).Return(nil)

		d := notification.NewDispatcher(8, notifications, candidates, jobs, mailer, zap.NewNop(), true)
		d.Start()
		d.Enqueue(statusEvent())
		d.Close()

		mailer.AssertNumberOfCalls(t, "SendStatusUpdateEmail", 1)
	})

	t.Run("Should not email for a score event", func(t *testing.T) {
		notifications := new(MockNotificationRepo)
		candidates := new(MockCandidateRepo)
		jobs := new(MockJobRepo)
		mailer := &MockMailer{configured: true}

		stubContact(candidates, jobs)
		notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

		score := 82.5
		d := notification.NewDispatcher(8, notifications, candidates, jobs, mailer, zap.NewNop(), true)
		d.Start()
		d.Enqueue(domain.TransitionEvent{
			Kind:          domain.EventScoreComputed,
			ApplicationID: 10,
			JobID:         7,
			CandidateID:   "cand-1",
			TotalScore:    &score,
			OccurredAt:    time.Now(),
		})
		d.Close()

		notifications.AssertNumberOfCalls(t, "Create", 1)
		mailer.AssertNotCalled(t, "SendStatusUpdateEmail", mock.Anything, mock.Anything)
	})

	t.Run("Should skip email when sending is disabled", func(t *testing.T) {
		notifications := new(MockNotificationRepo)
		candidates := new(MockCandidateRepo)
		jobs := new(MockJobRepo)
		mailer := &MockMailer{configured: true}

		stubContact(candidates, jobs)
		notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

		d := notification.NewDispatcher(8, notifications, candidates, jobs, mailer, zap.NewNop(), false)
		d.Start()
		d.Enqueue(statusEvent())
		d.Close()

		mailer.AssertNotCalled(t, "SendStatusUpdateEmail", mock.Anything, mock.Anything)
	})

	t.Run("Should drop the whole delivery when the recipient cannot be resolved", func(t *testing.T) {
		notifications := new(MockNotificationRepo)
		candidates := new(MockCandidateRepo)
		jobs := new(MockJobRepo)
		mailer := &MockMailer{configured: true}

		candidates.On("GetContact", mock.Anything, "cand-1").Return(nil, errors.New("candidate service down"))

		d := notification.NewDispatcher(8, notifications, candidates, jobs, mailer, zap.NewNop(), true)
		d.Start()
		d.Enqueue(statusEvent())
		d.Close()

		notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "SendStatusUpdateEmail", mock.Anything, mock.Anything)
	})

	t.Run("Should drop events when the buffer is full instead of blocking", func(t *testing.T) {
		notifications := new(MockNotificationRepo)
		candidates := new(MockCandidateRepo)
		jobs := new(MockJobRepo)
		mailer := &MockMailer{configured: false}

		stubContact(candidates, jobs)
		notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

		// Worker not started yet: only one event fits the buffer
		d := notification.NewDispatcher(1, notifications, candidates, jobs, mailer, zap.NewNop(), true)
		d.Enqueue(statusEvent())
		d.Enqueue(statusEvent()) // dropped, must not block
		d.Start()
		d.Close()

		notifications.AssertNumberOfCalls(t, "Create", 1)
	})
}
