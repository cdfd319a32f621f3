package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// StatusApplied is the name of the status every new application starts in.
// Statuses themselves are rows in a lookup table, not an enum: administrators
// add pipeline stages without a rebuild, and transitions reference status ids
// so renames never break history.
const StatusApplied = "Applied"

// ApplicationStatus is an admin-managed pipeline stage lookup value
type ApplicationStatus struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// JobApplication represents one candidate's application to one job
type JobApplication struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	CandidateID string    `json:"candidate_id"`
	StatusID    int64     `json:"status_id"`
	Score       *float64  `json:"score,omitempty"` // denormalized latest total, see AutomatedScore
	AppliedAt   time.Time `json:"applied_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Deleted     bool      `json:"-"`
	CreatedBy   *string   `json:"created_by,omitempty"`
	UpdatedBy   *string   `json:"updated_by,omitempty"`

	// Joined data for responses
	StatusName *string `json:"status_name,omitempty"`
	JobTitle   *string `json:"job_title,omitempty"`
}

// StatusHistoryEntry is one immutable row of the application's audit ledger.
// Entries are created exactly once per real transition and never updated or
// deleted. Labels are denormalized at write time so later status renames do
// not rewrite history.
type StatusHistoryEntry struct {
	ID               int64     `json:"id"`
	ApplicationID    int64     `json:"application_id"`
	PreviousStatusID *int64    `json:"previous_status_id,omitempty"`
	StatusID         int64     `json:"status_id"`
	PreviousStatus   *string   `json:"previous_status,omitempty"`
	NewStatus        string    `json:"new_status"`
	ChangedBy        *string   `json:"changed_by,omitempty"` // nil for system-initiated transitions
	Note             *string   `json:"note,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// BulkUpdateResult aggregates per-item outcomes of a bulk transition
type BulkUpdateResult struct {
	UpdatedCount int     `json:"updated_count"`
	SkippedIDs   []int64 `json:"skipped_ids"`
}

// ApplicationRepository defines data access methods for applications
type ApplicationRepository interface {
	Create(ctx context.Context, app *JobApplication) error
	GetByID(ctx context.Context, id int64) (*JobApplication, error)
	GetByIDs(ctx context.Context, ids []int64) ([]JobApplication, error)
	CheckExists(ctx context.Context, jobID int64, candidateID string) (bool, error)
	UpdateStatus(ctx context.Context, id, statusID int64, updatedBy *string) error
	// BulkUpdateStatus writes the new current status for all given ids in a
	// single statement. History rows and notification events stay per-item.
	BulkUpdateStatus(ctx context.Context, ids []int64, statusID int64, updatedBy *string) error
	UpdateScore(ctx context.Context, id int64, score float64) error
}

// StatusRepository defines data access for the status lookup table
type StatusRepository interface {
	GetByID(ctx context.Context, id int64) (*ApplicationStatus, error)
	GetByName(ctx context.Context, name string) (*ApplicationStatus, error)
	List(ctx context.Context) ([]ApplicationStatus, error)
}

// StatusHistoryRepository defines data access for the append-only ledger
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *StatusHistoryEntry) error
	// ListByApplication returns entries ordered by timestamp, ties broken by
	// insertion order.
	ListByApplication(ctx context.Context, applicationID int64) ([]StatusHistoryEntry, error)
}

// ApplicationUsecase defines business logic for the application lifecycle
type ApplicationUsecase interface {
	CreateApplication(ctx context.Context, jobID int64, candidateID string, actor *string) (*JobApplication, error)
	GetApplication(ctx context.Context, id int64) (*JobApplication, error)
	GetHistory(ctx context.Context, applicationID int64) ([]StatusHistoryEntry, error)
	UpdateStatus(ctx context.Context, id, statusID int64, note string, actor *string) (*JobApplication, error)
	BulkUpdateStatus(ctx context.Context, ids []int64, statusID int64, note string, actor *string) (*BulkUpdateResult, error)
	ListStatuses(ctx context.Context) ([]ApplicationStatus, error)
}
