package postgres

import (
	"context"
	"time"

	"go-talent-pipeline/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type historyRepo struct {
	db *pgxpool.Pool
}

// NewStatusHistoryRepository creates a new status history ledger repository
func NewStatusHistoryRepository(db *pgxpool.Pool) domain.StatusHistoryRepository {
	return &historyRepo{db: db}
}

// Append inserts one ledger entry. The table is append-only: there are no
// update or delete methods on purpose.
func (r *historyRepo) Append(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	query := `
		INSERT INTO application_status_history
			(application_id, previous_status_id, status_id, previous_status, new_status, changed_by, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	return r.db.QueryRow(ctx, query,
		entry.ApplicationID,
		entry.PreviousStatusID,
		entry.StatusID,
		entry.PreviousStatus,
		entry.NewStatus,
		entry.ChangedBy,
		entry.Note,
		entry.CreatedAt,
	).Scan(&entry.ID)
}

// ListByApplication returns the ledger ordered by timestamp, ties broken by
// insertion order (serial id)
func (r *historyRepo) ListByApplication(ctx context.Context, applicationID int64) ([]domain.StatusHistoryEntry, error) {
	query := `
		SELECT id, application_id, previous_status_id, status_id, previous_status, new_status, changed_by, note, created_at
		FROM application_status_history
		WHERE application_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StatusHistoryEntry
	for rows.Next() {
		var e domain.StatusHistoryEntry
		if err := rows.Scan(
			&e.ID, &e.ApplicationID, &e.PreviousStatusID, &e.StatusID,
			&e.PreviousStatus, &e.NewStatus, &e.ChangedBy, &e.Note, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
