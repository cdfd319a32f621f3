package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go-talent-pipeline/internal/domain"
	"go-talent-pipeline/pkg/apperror"
	"go-talent-pipeline/pkg/logger"

	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

const rankingsCacheTTL = 60 * time.Second

type scoringUsecase struct {
	scores       domain.AutomatedScoreRepository
	configs      domain.ScoringConfigRepository
	applications domain.ApplicationRepository
	jobs         domain.JobSnapshotRepository
	candidates   domain.CandidateSnapshotRepository
	interviews   domain.InterviewSnapshotRepository
	dispatcher   domain.TransitionDispatcher
	validate     *validator.Validate
	cache        *goredis.Client // nil when redis is not configured
}

// NewScoringUsecase creates the scoring engine and configuration store
func NewScoringUsecase(
	scores domain.AutomatedScoreRepository,
	configs domain.ScoringConfigRepository,
	applications domain.ApplicationRepository,
	jobs domain.JobSnapshotRepository,
	candidates domain.CandidateSnapshotRepository,
	interviews domain.InterviewSnapshotRepository,
	dispatcher domain.TransitionDispatcher,
	validate *validator.Validate,
	cache *goredis.Client,
) domain.ScoringUsecase {
	return &scoringUsecase{
		scores:       scores,
		configs:      configs,
		applications: applications,
		jobs:         jobs,
		candidates:   candidates,
		interviews:   interviews,
		dispatcher:   dispatcher,
		validate:     validate,
		cache:        cache,
	}
}

// ComputeScore recomputes the weighted ranking score for one application and
// overwrites its score slot. The computation is a deterministic function of
// the current job, candidate and interview snapshots: calling it twice with
// no intervening data change yields identical sub-scores and total.
func (uc *scoringUsecase) ComputeScore(ctx context.Context, applicationID int64) (*domain.ScoreResult, error) {
	// 1. Application must exist and not be soft-deleted
	app, err := uc.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	// 2. Resolve the job's position to find the active weight configuration
	job, err := uc.jobs.GetSummary(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}

	cfg, err := uc.getOrCreateDefaultConfig(ctx, job.PositionID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// 3. Read the input snapshots
	requirements, err := uc.jobs.GetSkillRequirements(ctx, app.JobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	candidateSkills, err := uc.candidates.GetSkills(ctx, app.CandidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	qualifications, err := uc.candidates.CountQualifications(ctx, app.CandidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	ratings, err := uc.interviews.GetFeedbackRatings(ctx, applicationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// 4. Compute sub-scores
	skillScore := skillMatchScore(requirements.Required, requirements.Preferred, candidateSkills)
	expScore := experienceScore(candidateSkills)
	ivScore := interviewScore(ratings)
	eduScore := educationScore(qualifications)
	// The online-test feature is retired; the weight slot remains for
	// backward compatibility and its sub-score is fixed at 0.
	testScore := 0.0

	total := skillScore*float64(cfg.SkillWeight)/100 +
		expScore*float64(cfg.ExperienceWeight)/100 +
		ivScore*float64(cfg.InterviewWeight)/100 +
		testScore*float64(cfg.TestWeight)/100 +
		eduScore*float64(cfg.EducationWeight)/100

	breakdown := domain.ScoreBreakdown{
		SkillMatch: domain.BreakdownComponent{Score: skillScore, Weight: cfg.SkillWeight},
		Experience: domain.BreakdownComponent{Score: expScore, Weight: cfg.ExperienceWeight},
		Interview:  domain.BreakdownComponent{Score: ivScore, Weight: cfg.InterviewWeight},
		Test:       domain.BreakdownComponent{Score: testScore, Weight: cfg.TestWeight},
		Education:  domain.BreakdownComponent{Score: eduScore, Weight: cfg.EducationWeight},
		Total:      total,
	}

	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// 5. Overwrite the single score slot and refresh the denormalized total
	score := &domain.AutomatedScore{
		ApplicationID:   applicationID,
		SkillScore:      skillScore,
		ExperienceScore: expScore,
		InterviewScore:  ivScore,
		TestScore:       testScore,
		EducationScore:  eduScore,
		TotalScore:      total,
		Breakdown:       string(breakdownJSON),
		CalculatedAt:    time.Now(),
	}
	if err := uc.scores.Upsert(ctx, score); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uc.applications.UpdateScore(ctx, applicationID, total); err != nil {
		return nil, apperror.Internal(err)
	}

	uc.invalidateRankingsCache(ctx, app.JobID)

	// 6. Fire-and-forget: the caller never waits for notification delivery
	uc.dispatcher.Enqueue(domain.TransitionEvent{
		Kind:          domain.EventScoreComputed,
		ApplicationID: applicationID,
		JobID:         app.JobID,
		CandidateID:   app.CandidateID,
		TotalScore:    &total,
		OccurredAt:    score.CalculatedAt,
	})

	return &domain.ScoreResult{
		ApplicationID: applicationID,
		Breakdown:     breakdown,
		CalculatedAt:  score.CalculatedAt,
	}, nil
}

// GetScore returns the last computed score for an application
func (uc *scoringUsecase) GetScore(ctx context.Context, applicationID int64) (*domain.AutomatedScore, error) {
	score, err := uc.scores.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("No score has been computed for this application")
		}
		return nil, apperror.Internal(err)
	}
	return score, nil
}

// GetRankings returns a job's applications ordered by total score descending
func (uc *scoringUsecase) GetRankings(ctx context.Context, jobID int64) ([]domain.RankingEntry, error) {
	if entries, ok := uc.cachedRankings(ctx, jobID); ok {
		return entries, nil
	}

	entries, err := uc.scores.ListByJob(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	uc.storeRankingsCache(ctx, jobID, entries)
	return entries, nil
}

// ExportRankings exports a job's rankings to an Excel workbook
func (uc *scoringUsecase) ExportRankings(ctx context.Context, jobID int64) ([]byte, string, error) {
	entries, err := uc.GetRankings(ctx, jobID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheetName := "Rankings"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"RANK", "APPLICATION ID", "CANDIDATE ID", "SKILL MATCH", "EXPERIENCE", "INTERVIEW", "EDUCATION", "TOTAL SCORE", "CALCULATED AT"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Style headers - Dark Blue background with White text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, entry := range entries {
		values := []interface{}{
			rowIdx + 1,
			entry.ApplicationID,
			entry.CandidateID,
			entry.SkillScore,
			entry.ExperienceScore,
			entry.InterviewScore,
			entry.EducationScore,
			entry.TotalScore,
			entry.CalculatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range headers {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", apperror.Internal(fmt.Errorf("failed to write Excel file: %w", err))
	}

	filename := fmt.Sprintf("job_%d_rankings_%s.xlsx", jobID, time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// GetConfiguration returns the active configuration for a position
func (uc *scoringUsecase) GetConfiguration(ctx context.Context, positionID int64) (*domain.ScoringConfiguration, error) {
	cfg, err := uc.configs.GetActiveByPosition(ctx, positionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("No scoring configuration exists for this position")
		}
		return nil, apperror.Internal(err)
	}
	return cfg, nil
}

// SaveConfiguration validates and persists a configuration, replacing the
// active one for the position. Validation happens before any mutation: a
// rejected configuration leaves the previously active one untouched.
func (uc *scoringUsecase) SaveConfiguration(ctx context.Context, cfg *domain.ScoringConfiguration) (*domain.ScoringConfiguration, error) {
	if err := uc.validate.Struct(cfg); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if sum := cfg.WeightSum(); sum != 100 {
		return nil, apperror.BadRequest(fmt.Sprintf("Scoring weights must sum to exactly 100, got %d", sum))
	}

	cfg.Active = true
	if err := uc.configs.Upsert(ctx, cfg); err != nil {
		return nil, apperror.Internal(err)
	}
	return cfg, nil
}

// getOrCreateDefaultConfig lazily creates and persists the system default
// weights (30/20/30/15/5) when a position has none. The hardcoded default
// already sums to 100 and is not revalidated.
func (uc *scoringUsecase) getOrCreateDefaultConfig(ctx context.Context, positionID int64) (*domain.ScoringConfiguration, error) {
	cfg, err := uc.configs.GetActiveByPosition(ctx, positionID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	cfg = domain.DefaultScoringConfiguration(positionID)
	if err := uc.configs.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ============================================================================
// Sub-score algorithms
// ============================================================================

// skillMatchScore scores 0-100 from required/preferred skill overlap.
// An empty required set defaults its component to full credit (70) only when
// the preferred set is non-empty, and vice versa (30). When both sets are
// empty there is nothing to match against and the score is 0, not 100. This
// asymmetry is intentional; do not "simplify" it.
func skillMatchScore(required, preferred []int64, candidateSkills []domain.CandidateSkill) float64 {
	if len(required) == 0 && len(preferred) == 0 {
		return 0
	}

	have := make(map[int64]bool, len(candidateSkills))
	for _, s := range candidateSkills {
		have[s.SkillID] = true
	}

	requiredComponent := 70.0
	if len(required) > 0 {
		matched := 0
		for _, id := range required {
			if have[id] {
				matched++
			}
		}
		requiredComponent = float64(matched) / float64(len(required)) * 70
	}

	preferredComponent := 30.0
	if len(preferred) > 0 {
		matched := 0
		for _, id := range preferred {
			if have[id] {
				matched++
			}
		}
		preferredComponent = float64(matched) / float64(len(preferred)) * 30
	}

	return math.Min(100, requiredComponent+preferredComponent)
}

// experienceScore sums years of experience across all candidate skills (not
// just matched ones, nil years count as 0) and normalizes against a 10-year
// ceiling.
func experienceScore(candidateSkills []domain.CandidateSkill) float64 {
	totalYears := 0.0
	for _, s := range candidateSkills {
		if s.YearsExperience != nil {
			totalYears += *s.YearsExperience
		}
	}
	return math.Min(100, totalYears/10*100)
}

// interviewScore averages all positive feedback ratings (1-5) across the
// application's interviews. No feedback means 0.
func interviewScore(ratings []int) float64 {
	sum, count := 0, 0
	for _, rating := range ratings {
		if rating > 0 {
			sum += rating
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count) / 5 * 100
}

// educationScore is a count-based proxy, 25 points per qualification capped
// at 100. It is not a quality assessment.
func educationScore(qualificationCount int) float64 {
	return math.Min(100, float64(qualificationCount)*25)
}

// ============================================================================
// Rankings cache (best-effort, skipped entirely when redis is absent)
// ============================================================================

func rankingsCacheKey(jobID int64) string {
	return fmt.Sprintf("rankings:job:%d", jobID)
}

func (uc *scoringUsecase) cachedRankings(ctx context.Context, jobID int64) ([]domain.RankingEntry, bool) {
	if uc.cache == nil {
		return nil, false
	}
	payload, err := uc.cache.Get(ctx, rankingsCacheKey(jobID)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []domain.RankingEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (uc *scoringUsecase) storeRankingsCache(ctx context.Context, jobID int64, entries []domain.RankingEntry) {
	if uc.cache == nil {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, rankingsCacheKey(jobID), payload, rankingsCacheTTL).Err(); err != nil {
		logger.Log.Debug("Failed to cache rankings", "job_id", jobID, "error", err)
	}
}

func (uc *scoringUsecase) invalidateRankingsCache(ctx context.Context, jobID int64) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Del(ctx, rankingsCacheKey(jobID)).Err(); err != nil {
		logger.Log.Debug("Failed to invalidate rankings cache", "job_id", jobID, "error", err)
	}
}
