package domain

import (
	"context"
	"time"
)

// Default scoring weights, applied lazily when a position has no
// configuration. They sum to 100 by construction and are persisted without
// revalidation.
const (
	DefaultSkillWeight      = 30
	DefaultExperienceWeight = 20
	DefaultInterviewWeight  = 30
	DefaultTestWeight       = 15
	DefaultEducationWeight  = 5
)

// ScoringConfiguration holds per-position weights (percentages) used to
// combine sub-scores. At most one configuration per position is active.
type ScoringConfiguration struct {
	ID         int64 `json:"id"`
	PositionID int64 `json:"position_id" validate:"required"`
	// TestWeight is kept for backward compatibility: the online-test feature
	// it once fed is retired and the test sub-score is fixed at 0.
	SkillWeight      int       `json:"skill_weight" validate:"gte=0,lte=100"`
	ExperienceWeight int       `json:"experience_weight" validate:"gte=0,lte=100"`
	InterviewWeight  int       `json:"interview_weight" validate:"gte=0,lte=100"`
	TestWeight       int       `json:"test_weight" validate:"gte=0,lte=100"`
	EducationWeight  int       `json:"education_weight" validate:"gte=0,lte=100"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// WeightSum returns the sum of the five weights. Callers must reject any
// configuration where this is not exactly 100.
func (c *ScoringConfiguration) WeightSum() int {
	return c.SkillWeight + c.ExperienceWeight + c.InterviewWeight + c.TestWeight + c.EducationWeight
}

// DefaultScoringConfiguration builds the system default for a position
func DefaultScoringConfiguration(positionID int64) *ScoringConfiguration {
	return &ScoringConfiguration{
		PositionID:       positionID,
		SkillWeight:      DefaultSkillWeight,
		ExperienceWeight: DefaultExperienceWeight,
		InterviewWeight:  DefaultInterviewWeight,
		TestWeight:       DefaultTestWeight,
		EducationWeight:  DefaultEducationWeight,
		Active:           true,
	}
}

// AutomatedScore is the latest computed ranking score for one application.
// Recomputation overwrites the row in place: there is one slot per
// application and no historical trail of past scores.
type AutomatedScore struct {
	ApplicationID   int64     `json:"application_id"`
	SkillScore      float64   `json:"skill_score"`
	ExperienceScore float64   `json:"experience_score"`
	InterviewScore  float64   `json:"interview_score"`
	TestScore       float64   `json:"test_score"`
	EducationScore  float64   `json:"education_score"`
	TotalScore      float64   `json:"total_score"`
	Breakdown       string    `json:"breakdown"` // serialized ScoreBreakdown, audit only
	CalculatedAt    time.Time `json:"calculated_at"`
	Deleted         bool      `json:"-"`
}

// BreakdownComponent pairs one sub-score with the weight that was applied
type BreakdownComponent struct {
	Score  float64 `json:"score"`
	Weight int     `json:"weight"`
}

// ScoreBreakdown is the structured form of the persisted breakdown snapshot
type ScoreBreakdown struct {
	SkillMatch BreakdownComponent `json:"skill_match"`
	Experience BreakdownComponent `json:"experience"`
	Interview  BreakdownComponent `json:"interview"`
	Test       BreakdownComponent `json:"test"`
	Education  BreakdownComponent `json:"education"`
	Total      float64            `json:"total"`
}

// ScoreResult is returned to the caller after a recomputation
type ScoreResult struct {
	ApplicationID int64          `json:"application_id"`
	Breakdown     ScoreBreakdown `json:"breakdown"`
	CalculatedAt  time.Time      `json:"calculated_at"`
}

// RankingEntry is one row of a job's score ranking
type RankingEntry struct {
	ApplicationID   int64     `json:"application_id"`
	CandidateID     string    `json:"candidate_id"`
	SkillScore      float64   `json:"skill_score"`
	ExperienceScore float64   `json:"experience_score"`
	InterviewScore  float64   `json:"interview_score"`
	EducationScore  float64   `json:"education_score"`
	TotalScore      float64   `json:"total_score"`
	CalculatedAt    time.Time `json:"calculated_at"`
}

// ScoringConfigRepository defines data access for scoring configurations
type ScoringConfigRepository interface {
	// GetActiveByPosition returns ErrNotFound when no active configuration
	// exists for the position.
	GetActiveByPosition(ctx context.Context, positionID int64) (*ScoringConfiguration, error)
	// Upsert replaces the active configuration for the position in place
	// (same identity) or inserts a new one when none exists.
	Upsert(ctx context.Context, cfg *ScoringConfiguration) error
}

// AutomatedScoreRepository defines data access for computed scores
type AutomatedScoreRepository interface {
	Upsert(ctx context.Context, score *AutomatedScore) error
	GetByApplicationID(ctx context.Context, applicationID int64) (*AutomatedScore, error)
	// ListByJob returns latest scores of non-deleted applications for the
	// job, ordered by total score descending. Ties keep storage order.
	ListByJob(ctx context.Context, jobID int64) ([]RankingEntry, error)
}

// ScoringUsecase defines business logic for the scoring engine
type ScoringUsecase interface {
	ComputeScore(ctx context.Context, applicationID int64) (*ScoreResult, error)
	GetScore(ctx context.Context, applicationID int64) (*AutomatedScore, error)
	GetRankings(ctx context.Context, jobID int64) ([]RankingEntry, error)
	ExportRankings(ctx context.Context, jobID int64) ([]byte, string, error)
	GetConfiguration(ctx context.Context, positionID int64) (*ScoringConfiguration, error)
	SaveConfiguration(ctx context.Context, cfg *ScoringConfiguration) (*ScoringConfiguration, error)
}
