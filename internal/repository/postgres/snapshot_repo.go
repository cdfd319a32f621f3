package postgres

import (
	"context"
	"errors"

	"go-talent-pipeline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// Snapshot repositories read data owned by the job, candidate and interview
// services. Everything here is a plain SELECT; the pipeline core never
// mutates these tables.

type jobSnapshotRepo struct {
	db *pgxpool.Pool
}

// NewJobSnapshotRepository creates a read-only job data source
func NewJobSnapshotRepository(db *pgxpool.Pool) domain.JobSnapshotRepository {
	return &jobSnapshotRepo{db: db}
}

func (r *jobSnapshotRepo) GetSummary(ctx context.Context, jobID int64) (*domain.JobSummary, error) {
	query := `SELECT id, title, position_id FROM jobs WHERE id = $1`

	var summary domain.JobSummary
	err := r.db.QueryRow(ctx, query, jobID).Scan(&summary.ID, &summary.Title, &summary.PositionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}

func (r *jobSnapshotRepo) GetSkillRequirements(ctx context.Context, jobID int64) (*domain.JobSkillRequirements, error) {
	query := `SELECT required_skill_ids, preferred_skill_ids FROM jobs WHERE id = $1`

	var required, preferred []int64
	err := r.db.QueryRow(ctx, query, jobID).Scan(pq.Array(&required), pq.Array(&preferred))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.JobSkillRequirements{Required: required, Preferred: preferred}, nil
}

type candidateSnapshotRepo struct {
	db *pgxpool.Pool
}

// NewCandidateSnapshotRepository creates a read-only candidate data source
func NewCandidateSnapshotRepository(db *pgxpool.Pool) domain.CandidateSnapshotRepository {
	return &candidateSnapshotRepo{db: db}
}

func (r *candidateSnapshotRepo) GetSkills(ctx context.Context, candidateID string) ([]domain.CandidateSkill, error) {
	query := `SELECT skill_id, years_experience FROM candidate_skills WHERE candidate_id = $1`

	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []domain.CandidateSkill
	for rows.Next() {
		var s domain.CandidateSkill
		if err := rows.Scan(&s.SkillID, &s.YearsExperience); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *candidateSnapshotRepo) CountQualifications(ctx context.Context, candidateID string) (int, error) {
	query := `SELECT COUNT(*) FROM candidate_qualifications WHERE candidate_id = $1`

	var count int
	err := r.db.QueryRow(ctx, query, candidateID).Scan(&count)
	return count, err
}

func (r *candidateSnapshotRepo) GetContact(ctx context.Context, candidateID string) (*domain.CandidateContact, error) {
	query := `SELECT id, full_name, email FROM candidates WHERE id = $1`

	var contact domain.CandidateContact
	err := r.db.QueryRow(ctx, query, candidateID).Scan(&contact.ID, &contact.FullName, &contact.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

type interviewSnapshotRepo struct {
	db *pgxpool.Pool
}

// NewInterviewSnapshotRepository creates a read-only interview data source
func NewInterviewSnapshotRepository(db *pgxpool.Pool) domain.InterviewSnapshotRepository {
	return &interviewSnapshotRepo{db: db}
}

// GetFeedbackRatings returns every feedback rating across all interviews
// tied to the application, zeros included
func (r *interviewSnapshotRepo) GetFeedbackRatings(ctx context.Context, applicationID int64) ([]int, error) {
	query := `
		SELECT f.rating
		FROM interview_feedback f
		JOIN interviews i ON f.interview_id = i.id
		WHERE i.application_id = $1`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
