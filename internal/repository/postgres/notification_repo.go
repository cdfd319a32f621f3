package postgres

import (
	"context"
	"time"

	"go-talent-pipeline/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type notificationRepo struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new in-app notification repository
func NewNotificationRepository(db *pgxpool.Pool) domain.NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, application_id, kind, title, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)`

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, query,
		n.ID, n.RecipientID, n.ApplicationID, n.Kind, n.Title, n.Body, n.CreatedAt,
	)
	return err
}

func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	query := `
		SELECT id, recipient_id, application_id, kind, title, body, read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT 100`

	rows, err := r.db.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID, &n.RecipientID, &n.ApplicationID, &n.Kind, &n.Title, &n.Body, &n.Read, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
