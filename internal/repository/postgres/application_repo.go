package postgres

import (
	"context"
	"errors"
	"time"

	"go-talent-pipeline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application
func (r *applicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	query := `
		INSERT INTO applications (job_id, candidate_id, status_id, applied_at, updated_at, deleted, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)
		RETURNING id`

	now := time.Now()
	app.AppliedAt = now
	app.UpdatedAt = now

	return r.db.QueryRow(ctx, query,
		app.JobID,
		app.CandidateID,
		app.StatusID,
		app.AppliedAt,
		app.UpdatedAt,
		app.CreatedBy,
	).Scan(&app.ID)
}

// GetByID retrieves a non-deleted application with its status label and job title
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.JobApplication, error) {
	query := `
		SELECT
			a.id, a.job_id, a.candidate_id, a.status_id, a.score,
			a.applied_at, a.updated_at, a.created_by, a.updated_by,
			s.name as status_name,
			j.title as job_title
		FROM applications a
		JOIN application_statuses s ON a.status_id = s.id
		LEFT JOIN jobs j ON a.job_id = j.id
		WHERE a.id = $1 AND a.deleted = FALSE`

	var app domain.JobApplication
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.JobID, &app.CandidateID, &app.StatusID, &app.Score,
		&app.AppliedAt, &app.UpdatedAt, &app.CreatedBy, &app.UpdatedBy,
		&app.StatusName, &app.JobTitle,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// GetByIDs retrieves all non-deleted applications matching the given ids.
// Unknown ids simply do not appear in the result; callers treat them as skipped.
func (r *applicationRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.JobApplication, error) {
	query := `
		SELECT
			a.id, a.job_id, a.candidate_id, a.status_id, a.score,
			a.applied_at, a.updated_at, a.created_by, a.updated_by,
			s.name as status_name
		FROM applications a
		JOIN application_statuses s ON a.status_id = s.id
		WHERE a.id = ANY($1) AND a.deleted = FALSE
		ORDER BY a.id`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []domain.JobApplication
	for rows.Next() {
		var app domain.JobApplication
		if err := rows.Scan(
			&app.ID, &app.JobID, &app.CandidateID, &app.StatusID, &app.Score,
			&app.AppliedAt, &app.UpdatedAt, &app.CreatedBy, &app.UpdatedBy,
			&app.StatusName,
		); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	return applications, rows.Err()
}

// CheckExists checks if an application already exists for the job/candidate combination
func (r *applicationRepo) CheckExists(ctx context.Context, jobID int64, candidateID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2 AND deleted = FALSE)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, candidateID).Scan(&exists)
	return exists, err
}

// UpdateStatus sets the current status of an application and bumps updated_at.
// No optimistic-concurrency token: concurrent transitions are last-writer-wins
// on current status while each still appends its own history entry.
func (r *applicationRepo) UpdateStatus(ctx context.Context, id, statusID int64, updatedBy *string) error {
	query := `UPDATE applications SET status_id = $2, updated_at = $3, updated_by = $4 WHERE id = $1 AND deleted = FALSE`
	result, err := r.db.Exec(ctx, query, id, statusID, time.Now(), updatedBy)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// BulkUpdateStatus writes the new current status for all ids in one statement
func (r *applicationRepo) BulkUpdateStatus(ctx context.Context, ids []int64, statusID int64, updatedBy *string) error {
	query := `UPDATE applications SET status_id = $2, updated_at = $3, updated_by = $4 WHERE id = ANY($1) AND deleted = FALSE`
	_, err := r.db.Exec(ctx, query, ids, statusID, time.Now(), updatedBy)
	return err
}

// UpdateScore refreshes the denormalized total score cache
func (r *applicationRepo) UpdateScore(ctx context.Context, id int64, score float64) error {
	query := `UPDATE applications SET score = $2 WHERE id = $1 AND deleted = FALSE`
	result, err := r.db.Exec(ctx, query, id, score)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
