package postgres

import (
	"context"
	"errors"
	"time"

	"go-talent-pipeline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type scoringConfigRepo struct {
	db *pgxpool.Pool
}

// NewScoringConfigRepository creates a new scoring configuration repository
func NewScoringConfigRepository(db *pgxpool.Pool) domain.ScoringConfigRepository {
	return &scoringConfigRepo{db: db}
}

// GetActiveByPosition returns the single active configuration for a position
func (r *scoringConfigRepo) GetActiveByPosition(ctx context.Context, positionID int64) (*domain.ScoringConfiguration, error) {
	query := `
		SELECT id, position_id, skill_weight, experience_weight, interview_weight, test_weight, education_weight, active, created_at, updated_at
		FROM scoring_configurations
		WHERE position_id = $1 AND active = TRUE`

	var cfg domain.ScoringConfiguration
	err := r.db.QueryRow(ctx, query, positionID).Scan(
		&cfg.ID, &cfg.PositionID,
		&cfg.SkillWeight, &cfg.ExperienceWeight, &cfg.InterviewWeight, &cfg.TestWeight, &cfg.EducationWeight,
		&cfg.Active, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// Upsert replaces the active configuration in place when one exists for the
// position, otherwise inserts it. Configurations never accumulate duplicates.
func (r *scoringConfigRepo) Upsert(ctx context.Context, cfg *domain.ScoringConfiguration) error {
	now := time.Now()

	update := `
		UPDATE scoring_configurations
		SET skill_weight = $2, experience_weight = $3, interview_weight = $4, test_weight = $5, education_weight = $6, updated_at = $7
		WHERE position_id = $1 AND active = TRUE
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, update,
		cfg.PositionID,
		cfg.SkillWeight, cfg.ExperienceWeight, cfg.InterviewWeight, cfg.TestWeight, cfg.EducationWeight,
		now,
	).Scan(&cfg.ID, &cfg.CreatedAt)
	if err == nil {
		cfg.Active = true
		cfg.UpdatedAt = now
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	insert := `
		INSERT INTO scoring_configurations
			(position_id, skill_weight, experience_weight, interview_weight, test_weight, education_weight, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $7)
		RETURNING id`

	if err := r.db.QueryRow(ctx, insert,
		cfg.PositionID,
		cfg.SkillWeight, cfg.ExperienceWeight, cfg.InterviewWeight, cfg.TestWeight, cfg.EducationWeight,
		now,
	).Scan(&cfg.ID); err != nil {
		return err
	}
	cfg.Active = true
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	return nil
}

type automatedScoreRepo struct {
	db *pgxpool.Pool
}

// NewAutomatedScoreRepository creates a new automated score repository
func NewAutomatedScoreRepository(db *pgxpool.Pool) domain.AutomatedScoreRepository {
	return &automatedScoreRepo{db: db}
}

// Upsert overwrites the single score slot for the application. There is no
// history of past scores; recomputation replaces the row.
func (r *automatedScoreRepo) Upsert(ctx context.Context, score *domain.AutomatedScore) error {
	query := `
		INSERT INTO automated_scores
			(application_id, skill_score, experience_score, interview_score, test_score, education_score, total_score, breakdown, calculated_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE)
		ON CONFLICT (application_id) DO UPDATE SET
			skill_score = EXCLUDED.skill_score,
			experience_score = EXCLUDED.experience_score,
			interview_score = EXCLUDED.interview_score,
			test_score = EXCLUDED.test_score,
			education_score = EXCLUDED.education_score,
			total_score = EXCLUDED.total_score,
			breakdown = EXCLUDED.breakdown,
			calculated_at = EXCLUDED.calculated_at,
			deleted = FALSE`

	_, err := r.db.Exec(ctx, query,
		score.ApplicationID,
		score.SkillScore, score.ExperienceScore, score.InterviewScore, score.TestScore, score.EducationScore,
		score.TotalScore, score.Breakdown, score.CalculatedAt,
	)
	return err
}

// GetByApplicationID returns the last computed score for an application
func (r *automatedScoreRepo) GetByApplicationID(ctx context.Context, applicationID int64) (*domain.AutomatedScore, error) {
	query := `
		SELECT application_id, skill_score, experience_score, interview_score, test_score, education_score, total_score, breakdown, calculated_at
		FROM automated_scores
		WHERE application_id = $1 AND deleted = FALSE`

	var score domain.AutomatedScore
	err := r.db.QueryRow(ctx, query, applicationID).Scan(
		&score.ApplicationID,
		&score.SkillScore, &score.ExperienceScore, &score.InterviewScore, &score.TestScore, &score.EducationScore,
		&score.TotalScore, &score.Breakdown, &score.CalculatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &score, nil
}

// ListByJob returns the job's latest scores ordered by total descending.
// Ties keep storage order; no explicit tiebreaker.
func (r *automatedScoreRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.RankingEntry, error) {
	query := `
		SELECT s.application_id, a.candidate_id, s.skill_score, s.experience_score, s.interview_score, s.education_score, s.total_score, s.calculated_at
		FROM automated_scores s
		JOIN applications a ON s.application_id = a.id
		WHERE a.job_id = $1 AND a.deleted = FALSE AND s.deleted = FALSE
		ORDER BY s.total_score DESC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.RankingEntry
	for rows.Next() {
		var e domain.RankingEntry
		if err := rows.Scan(
			&e.ApplicationID, &e.CandidateID,
			&e.SkillScore, &e.ExperienceScore, &e.InterviewScore, &e.EducationScore,
			&e.TotalScore, &e.CalculatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
