package usecase_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"go-talent-pipeline/internal/domain"
	"go-talent-pipeline/pkg/logger"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.JobApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.JobApplication, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) CheckExists(ctx context.Context, jobID int64, candidateID string) (bool, error) {
	args := m.Called(ctx, jobID, candidateID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id, statusID int64, updatedBy *string) error {
	return m.Called(ctx, id, statusID, updatedBy).Error(0)
}

func (m *MockApplicationRepo) BulkUpdateStatus(ctx context.Context, ids []int64, statusID int64, updatedBy *string) error {
	return m.Called(ctx, ids, statusID, updatedBy).Error(0)
}

func (m *MockApplicationRepo) UpdateScore(ctx context.Context, id int64, score float64) error {
	return m.Called(ctx, id, score).Error(0)
}

type MockStatusRepo struct {
	mock.Mock
}

func (m *MockStatusRepo) GetByID(ctx context.Context, id int64) (*domain.ApplicationStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationStatus), args.Error(1)
}

func (m *MockStatusRepo) GetByName(ctx context.Context, name string) (*domain.ApplicationStatus, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationStatus), args.Error(1)
}

func (m *MockStatusRepo) List(ctx context.Context) ([]domain.ApplicationStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApplicationStatus), args.Error(1)
}

type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Append(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockHistoryRepo) ListByApplication(ctx context.Context, applicationID int64) ([]domain.StatusHistoryEntry, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusHistoryEntry), args.Error(1)
}

type MockScoringConfigRepo struct {
	mock.Mock
}

func (m *MockScoringConfigRepo) GetActiveByPosition(ctx context.Context, positionID int64) (*domain.ScoringConfiguration, error) {
	args := m.Called(ctx, positionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScoringConfiguration), args.Error(1)
}

func (m *MockScoringConfigRepo) Upsert(ctx context.Context, cfg *domain.ScoringConfiguration) error {
	return m.Called(ctx, cfg).Error(0)
}

type MockScoreRepo struct {
	mock.Mock
}

func (m *MockScoreRepo) Upsert(ctx context.Context, score *domain.AutomatedScore) error {
	return m.Called(ctx, score).Error(0)
}

func (m *MockScoreRepo) GetByApplicationID(ctx context.Context, applicationID int64) (*domain.AutomatedScore, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutomatedScore), args.Error(1)
}

func (m *MockScoreRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.RankingEntry, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankingEntry), args.Error(1)
}

type MockJobSnapshotRepo struct {
	mock.Mock
}

func (m *MockJobSnapshotRepo) GetSummary(ctx context.Context, jobID int64) (*domain.JobSummary, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobSummary), args.Error(1)
}

func (m *MockJobSnapshotRepo) GetSkillRequirements(ctx context.Context, jobID int64) (*domain.JobSkillRequirements, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobSkillRequirements), args.Error(1)
}

type MockCandidateSnapshotRepo struct {
	mock.Mock
}

func (m *MockCandidateSnapshotRepo) GetSkills(ctx context.Context, candidateID string) ([]domain.CandidateSkill, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateSkill), args.Error(1)
}

func (m *MockCandidateSnapshotRepo) CountQualifications(ctx context.Context, candidateID string) (int, error) {
	args := m.Called(ctx, candidateID)
	return args.Int(0), args.Error(1)
}

func (m *MockCandidateSnapshotRepo) GetContact(ctx context.Context, candidateID string) (*domain.CandidateContact, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateContact), args.Error(1)
}

type MockInterviewSnapshotRepo struct {
	mock.Mock
}

func (m *MockInterviewSnapshotRepo) GetFeedbackRatings(ctx context.Context, applicationID int64) ([]int, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// recordingDispatcher captures enqueued events synchronously so tests can
// assert on exactly what the usecase scheduled.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.TransitionEvent
}

func (d *recordingDispatcher) Enqueue(event domain.TransitionEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) Events() []domain.TransitionEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.TransitionEvent(nil), d.events...)
}
