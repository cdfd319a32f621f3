package usecase_test

import (
	"context"
	"testing"

	"go-talent-pipeline/internal/domain"
	"go-talent-pipeline/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type scoringFixture struct {
	scores     *MockScoreRepo
	configs    *MockScoringConfigRepo
	apps       *MockApplicationRepo
	jobs       *MockJobSnapshotRepo
	candidates *MockCandidateSnapshotRepo
	interviews *MockInterviewSnapshotRepo
	dispatcher *recordingDispatcher
	uc         domain.ScoringUsecase
}

func newScoringFixture() *scoringFixture {
	f := &scoringFixture{
		scores:     new(MockScoreRepo),
		configs:    new(MockScoringConfigRepo),
		apps:       new(MockApplicationRepo),
		jobs:       new(MockJobSnapshotRepo),
		candidates: new(MockCandidateSnapshotRepo),
		interviews: new(MockInterviewSnapshotRepo),
		dispatcher: &recordingDispatcher{},
	}
	f.uc = usecase.NewScoringUsecase(
		f.scores, f.configs, f.apps, f.jobs, f.candidates, f.interviews,
		f.dispatcher, validator.New(), nil,
	)
	return f
}

// stubComputeInputs wires the happy-path reads for application 10 on job 7
// (position 3), leaving skills/quals/ratings to the caller.
func (f *scoringFixture) stubComputeInputs(required, preferred []int64, skills []domain.CandidateSkill, qualifications int, ratings []int) {
	f.apps.On("GetByID", mock.Anything, int64(10)).Return(&domain.JobApplication{
		ID: 10, JobID: 7, CandidateID: "cand-1", StatusID: 1,
	}, nil)
	f.jobs.On("GetSummary", mock.Anything, int64(7)).Return(&domain.JobSummary{
		ID: 7, Title: "Backend Engineer", PositionID: 3,
	}, nil)
	f.jobs.On("GetSkillRequirements", mock.Anything, int64(7)).Return(&domain.JobSkillRequirements{
		Required: required, Preferred: preferred,
	}, nil)
	f.candidates.On("GetSkills", mock.Anything, "cand-1").Return(skills, nil)
	f.candidates.On("CountQualifications", mock.Anything, "cand-1").Return(qualifications, nil)
	f.interviews.On("GetFeedbackRatings", mock.Anything, int64(10)).Return(ratings, nil)
	f.scores.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.AutomatedScore")).Return(nil)
	f.apps.On("UpdateScore", mock.Anything, int64(10), mock.AnythingOfType("float64")).Return(nil)
}

func years(v float64) *float64 { return &v }

func TestComputeScore(t *testing.T) {
	t.Run("Should combine sub-scores with default weights", func(t *testing.T) {
		f := newScoringFixture()
		// No configuration yet: the default must be created lazily
		f.configs.On("GetActiveByPosition", mock.Anything, int64(3)).Return(nil, domain.ErrNotFound)
		f.configs.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ScoringConfiguration")).Return(nil)

		// Required [1 2] with 1 held, preferred [3] with 3 held: 35 + 30 = 65.
		// Total 3 years of experience: 30. Two qualifications: 50.
		f.stubComputeInputs(
			[]int64{1, 2}, []int64{3},
			[]domain.CandidateSkill{
				{SkillID: 1, YearsExperience: years(2)},
				{SkillID: 3, YearsExperience: years(1)},
			},
			2, nil,
		)

		result, err := f.uc.ComputeScore(context.Background(), 10)

		assert.NoError(t, err)
		assert.Equal(t, 65.0, result.Breakdown.SkillMatch.Score)
		assert.Equal(t, 30.0, result.Breakdown.Experience.Score)
		assert.Equal(t, 0.0, result.Breakdown.Interview.Score)
		assert.Equal(t, 0.0, result.Breakdown.Test.Score)
		assert.Equal(t, 50.0, result.Breakdown.Education.Score)
		// 65*0.30 + 30*0.20 + 0*0.30 + 0*0.15 + 50*0.05
		assert.InDelta(t, 28.0, result.Breakdown.Total, 1e-9)

		// Lazy default was persisted with the stock weights
		f.configs.AssertCalled(t, "Upsert", mock.Anything, mock.MatchedBy(func(cfg *domain.ScoringConfiguration) bool {
			return cfg.PositionID == 3 && cfg.SkillWeight == 30 && cfg.EducationWeight == 5 && cfg.Active
		}))
	})

	t.Run("Should score zero skill match when job lists no skills at all", func(t *testing.T) {
		f := newScoringFixture()
		f.configs.On("GetActiveByPosition", mock.Anything, int64(3)).Return(domain.DefaultScoringConfiguration(3), nil)
		f.stubComputeInputs(nil, nil, []domain.CandidateSkill{{SkillID: 1}}, 0, nil)

		result, err := f.uc.ComputeScore(context.Background(), 10)

		assert.NoError(t, err)
		assert.Equal(t, 0.0, result.Breakdown.SkillMatch.Score)
	})

	t.Run("Should give full required credit when only preferred skills are listed", func(t *testing.T) {
		f := newScoringFixture()
		f.configs.On("GetActiveByPosition", mock.Anything, int64(3)).Return(domain.DefaultScoringConfiguration(3), nil)
		// Preferred [3] not held: required component defaults to 70, preferred 0
		f.stubComputeInputs(nil, []int64{3}, []domain.CandidateSkill{{SkillID: 9}}, 0, nil)

		result, err := f.uc.ComputeScore(context.Background(), 10)

		assert.NoError(t, err)
		assert.Equal(t, 70.0, result.Breakdown.SkillMatch.Score)
	})

	t.Run("Should cap experience at the ten year ceiling", func(t *testing.T) {
		f := newScoringFixture()
		f.configs.On("GetActiveByPosition", mock.Anything, int64(3)).Return(domain.DefaultScoringConfiguration(3), nil)
		f.stubComputeInputs([]int64{1}, nil, []domain.CandidateSkill{
			{SkillID: 1, YearsExperience: years(15)},
		}, 0, nil)

		result, err := f.uc.ComputeScore(context.Background(), 10)

		assert.NoError(t, err)
		assert.Equal(t, 100.0, result.Breakdown.Experience.Score)
	})

	t.Run("Should average only positive interview ratings", func(t *testing.T) {
		f := newScoringFixture()
		f.configs.On("GetActiveByPosition", mock.Anything, int64(3)).Return(domain.DefaultScoringConfiguration(3), nil)
		// Zero ratings are unscored placeholders, not bad reviews
		f.stubComputeInputs([]int64{1}, nil, nil, 0, []int{4, 5, 0})

		result, err := f.uc.ComputeScore(context.Background(), 10)

		assert.NoError(t, err)
		assert.InDelta(t, 90.0, result.Breakdown.Interview.Score, 1e-9)
	})

	t.Run("Should cap education at four qualifications", func(t *testing.T) {
		f := newScoringFixture()
		f.configs.On("GetActiveByPosition", mock.Anything, int64(3)).Return(domain.DefaultScoringConfiguration(3), nil)
		f.stubComputeInputs([]int64{1}, nil, nil, 6, nil)

		result, err := f.uc.ComputeScore(context.Background(), 10)

		assert.NoError(t, err)
		assert.Equal(t, 100.0, result.Breakdown.Education.Score)
	})

	t.Run("Should be deterministic for unchanged inputs", func(t *testing.T) {
		f := newScoringFixture()
		f.configs.On("GetActiveByPosition", mock.Anything, int64(3)).Return(domain.DefaultScoringConfiguration(3), nil)
		f.stubComputeInputs([]int64{1, 2}, []int64{3}, []domain.CandidateSkill{
			{SkillID: 1, YearsExperience: years(2)},
			{SkillID: 3, YearsExperience: years(1)},
		}, 2, []int{5})

		first, err := f.uc.ComputeScore(context.Background(), 10)
		assert.NoError(t, err)
		second, err := f.uc.ComputeScore(context.Background(), 10)
		assert.NoError(t, err)

		assert.Equal(t, first.Breakdown, second.Breakdown)
	})

	t.Run("Should fail when the application does not exist", func(t *testing.T) {
		f := newScoringFixture()
		f.apps.On("GetByID", mock.Anything, int64(404)).Return(nil, domain.ErrNotFound)

		_, err := f.uc.ComputeScore(context.Background(), 404)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Application not found")
	})

	t.Run("Should enqueue a score event after persisting", func(t *testing.T) {
		f := newScoringFixture()
		f.configs.On("GetActiveByPosition", mock.Anything, int64(3)).Return(domain.DefaultScoringConfiguration(3), nil)
		f.stubComputeInputs([]int64{1}, nil, []domain.CandidateSkill{{SkillID: 1}}, 0, nil)

		_, err := f.uc.ComputeScore(context.Background(), 10)

		assert.NoError(t, err)
		events := f.dispatcher.Events()
		assert.Len(t, events, 1)
		assert.Equal(t, domain.EventScoreComputed, events[0].Kind)
		assert.Equal(t, int64(10), events[0].ApplicationID)
		assert.NotNil(t, events[0].TotalScore)
	})
}

func TestSaveConfiguration(t *testing.T) {
	t.Run("Should reject weights that do not sum to 100", func(t *testing.T) {
		f := newScoringFixture()

		_, err := f.uc.SaveConfiguration(context.Background(), &domain.ScoringConfiguration{
			PositionID:       3,
			SkillWeight:      30,
			ExperienceWeight: 20,
			InterviewWeight:  30,
			TestWeight:       5,
			EducationWeight:  5, // sums to 90
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "sum to exactly 100")
		// Rejection must leave the active configuration untouched
		f.configs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should persist and activate a valid configuration", func(t *testing.T) {
		f := newScoringFixture()
		f.configs.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ScoringConfiguration")).Return(nil)

		saved, err := f.uc.SaveConfiguration(context.Background(), &domain.ScoringConfiguration{
			PositionID:       3,
			SkillWeight:      40,
			ExperienceWeight: 30,
			InterviewWeight:  20,
			TestWeight:       0,
			EducationWeight:  10,
		})

		assert.NoError(t, err)
		assert.True(t, saved.Active)
	})
}

func TestGetRankings(t *testing.T) {
	t.Run("Should return repository order", func(t *testing.T) {
		f := newScoringFixture()
		f.scores.On("ListByJob", mock.Anything, int64(7)).Return([]domain.RankingEntry{
			{ApplicationID: 2, TotalScore: 91.5},
			{ApplicationID: 1, TotalScore: 40.0},
		}, nil)

		entries, err := f.uc.GetRankings(context.Background(), 7)

		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, int64(2), entries[0].ApplicationID)
	})
}
