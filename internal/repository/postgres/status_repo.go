package postgres

import (
	"context"
	"errors"

	"go-talent-pipeline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type statusRepo struct {
	db *pgxpool.Pool
}

// NewStatusRepository creates a new status lookup repository
func NewStatusRepository(db *pgxpool.Pool) domain.StatusRepository {
	return &statusRepo{db: db}
}

func (r *statusRepo) GetByID(ctx context.Context, id int64) (*domain.ApplicationStatus, error) {
	query := `SELECT id, name FROM application_statuses WHERE id = $1`

	var status domain.ApplicationStatus
	err := r.db.QueryRow(ctx, query, id).Scan(&status.ID, &status.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

func (r *statusRepo) GetByName(ctx context.Context, name string) (*domain.ApplicationStatus, error) {
	query := `SELECT id, name FROM application_statuses WHERE name = $1`

	var status domain.ApplicationStatus
	err := r.db.QueryRow(ctx, query, name).Scan(&status.ID, &status.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

func (r *statusRepo) List(ctx context.Context) ([]domain.ApplicationStatus, error) {
	query := `SELECT id, name FROM application_statuses ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []domain.ApplicationStatus
	for rows.Next() {
		var status domain.ApplicationStatus
		if err := rows.Scan(&status.ID, &status.Name); err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}
