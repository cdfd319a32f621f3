package domain

import (
	"context"
	"time"
)

// Event kinds emitted by the pipeline core
const (
	EventStatusChanged = "status_changed"
	EventScoreComputed = "score_computed"
)

// TransitionEvent is the message handed to the notification dispatcher after
// a successful status change or score recomputation. Delivery is best-effort
// and asynchronous; once enqueued the triggering request no longer waits.
type TransitionEvent struct {
	Kind           string    `json:"kind"`
	ApplicationID  int64     `json:"application_id"`
	JobID          int64     `json:"job_id"`
	CandidateID    string    `json:"candidate_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status,omitempty"`
	Note           *string   `json:"note,omitempty"`
	TotalScore     *float64  `json:"total_score,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Notification is one persisted in-app alert
type Notification struct {
	ID            string    `json:"id"`
	RecipientID   string    `json:"recipient_id"`
	ApplicationID int64     `json:"application_id"`
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransitionDispatcher accepts events for asynchronous fan-out. Enqueue must
// never block the caller; a full buffer drops the event (at-most-once).
type TransitionDispatcher interface {
	Enqueue(event TransitionEvent)
}

// NotificationRepository defines data access for in-app notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID string) ([]Notification, error)
}

// NotificationUsecase exposes the in-app side of the fan-out to delivery
type NotificationUsecase interface {
	ListMyNotifications(ctx context.Context, recipientID string) ([]Notification, error)
}
