package usecase

import (
	"context"
	"errors"
	"time"

	"go-talent-pipeline/internal/domain"
	"go-talent-pipeline/pkg/apperror"
	"go-talent-pipeline/pkg/logger"
)

type applicationUsecase struct {
	applications domain.ApplicationRepository
	statuses     domain.StatusRepository
	history      domain.StatusHistoryRepository
	jobs         domain.JobSnapshotRepository
	dispatcher   domain.TransitionDispatcher
}

// NewApplicationUsecase creates the status transition coordinator
func NewApplicationUsecase(
	applications domain.ApplicationRepository,
	statuses domain.StatusRepository,
	history domain.StatusHistoryRepository,
	jobs domain.JobSnapshotRepository,
	dispatcher domain.TransitionDispatcher,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applications: applications,
		statuses:     statuses,
		history:      history,
		jobs:         jobs,
		dispatcher:   dispatcher,
	}
}

// CreateApplication registers a candidate's application, sets the initial
// "Applied" status synchronously and writes the creation entry to the
// ledger. This is the one case where history-writing is part of creation
// rather than a later transition.
func (uc *applicationUsecase) CreateApplication(ctx context.Context, jobID int64, candidateID string, actor *string) (*domain.JobApplication, error) {
	// 1. Validate the job exists
	if _, err := uc.jobs.GetSummary(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, apperror.Internal(err)
	}

	// 2. One application per job/candidate pair
	exists, err := uc.applications.CheckExists(ctx, jobID, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.BadRequest("Candidate has already applied to this job")
	}

	// 3. Resolve the configured initial status
	applied, err := uc.statuses.GetByName(ctx, domain.StatusApplied)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	app := &domain.JobApplication{
		JobID:       jobID,
		CandidateID: candidateID,
		StatusID:    applied.ID,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	}
	if err := uc.applications.Create(ctx, app); err != nil {
		return nil, apperror.Internal(err)
	}
	app.StatusName = &applied.Name

	// 4. Ledger entry recording the creation
	entry := &domain.StatusHistoryEntry{
		ApplicationID: app.ID,
		StatusID:      applied.ID,
		NewStatus:     applied.Name,
		ChangedBy:     actor,
	}
	if err := uc.history.Append(ctx, entry); err != nil {
		return nil, apperror.Internal(err)
	}

	return app, nil
}

// GetApplication returns one non-deleted application with its status label
func (uc *applicationUsecase) GetApplication(ctx context.Context, id int64) (*domain.JobApplication, error) {
	app, err := uc.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	return app, nil
}

// GetHistory returns the application's status ledger in order
func (uc *applicationUsecase) GetHistory(ctx context.Context, applicationID int64) ([]domain.StatusHistoryEntry, error) {
	if _, err := uc.GetApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	entries, err := uc.history.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}

// UpdateStatus moves an application to a new status.
//
// The status set is an unconstrained directed graph on purpose: any status
// may move to any other status, including out of "Hired" or "Rejected", so
// recruiters can revert or skip stages. Do not "fix" this into a validated
// transition graph.
//
// A real transition (new status differs from current) updates the current
// status, appends exactly one ledger entry, and schedules a notification
// event. Updating to the same status is a no-op: no history row, no event.
func (uc *applicationUsecase) UpdateStatus(ctx context.Context, id, statusID int64, note string, actor *string) (*domain.JobApplication, error) {
	app, err := uc.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	newStatus, err := uc.statuses.GetByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Status not found")
		}
		return nil, apperror.Internal(err)
	}

	// No-op suppression
	if app.StatusID == statusID {
		return app, nil
	}

	if err := uc.applications.UpdateStatus(ctx, id, statusID, actor); err != nil {
		return nil, apperror.Internal(err)
	}

	previousStatus := app.StatusName
	previousStatusID := app.StatusID
	if err := uc.history.Append(ctx, uc.transitionEntry(app.ID, previousStatusID, previousStatus, newStatus, note, actor)); err != nil {
		return nil, apperror.Internal(err)
	}

	uc.enqueueTransition(app, previousStatus, newStatus, note)

	app.StatusID = newStatus.ID
	app.StatusName = &newStatus.Name
	app.UpdatedAt = time.Now()
	app.UpdatedBy = actor
	return app, nil
}

// BulkUpdateStatus applies one transition to a batch of applications.
// Unknown or soft-deleted ids are skipped silently, never failed. The
// current-status write is a single bulk statement; ledger entries and
// notification events stay per-item and independent, so a failure on one
// item does not roll back the others. A crash mid-batch can leave a partial
// bulk update applied; that is the accepted semantics.
func (uc *applicationUsecase) BulkUpdateStatus(ctx context.Context, ids []int64, statusID int64, note string, actor *string) (*domain.BulkUpdateResult, error) {
	if len(ids) == 0 {
		return nil, apperror.BadRequest("Application id list cannot be empty")
	}

	// Dedupe while preserving order
	seen := make(map[int64]bool, len(ids))
	distinct := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}

	newStatus, err := uc.statuses.GetByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Status not found")
		}
		return nil, apperror.Internal(err)
	}

	apps, err := uc.applications.GetByIDs(ctx, distinct)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	loaded := make(map[int64]bool, len(apps))
	var changed []domain.JobApplication
	for _, app := range apps {
		loaded[app.ID] = true
		if app.StatusID != statusID {
			changed = append(changed, app)
		}
	}

	var skipped []int64
	for _, id := range distinct {
		if !loaded[id] {
			skipped = append(skipped, id)
		}
	}

	if len(changed) > 0 {
		changedIDs := make([]int64, len(changed))
		for i, app := range changed {
			changedIDs[i] = app.ID
		}
		if err := uc.applications.BulkUpdateStatus(ctx, changedIDs, statusID, actor); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	for i := range changed {
		app := &changed[i]
		entry := uc.transitionEntry(app.ID, app.StatusID, app.StatusName, newStatus, note, actor)
		if err := uc.history.Append(ctx, entry); err != nil {
			// Per-item isolation: log and keep going
			logger.Log.Error("Failed to append bulk history entry", "application_id", app.ID, "error", err)
			continue
		}
		uc.enqueueTransition(app, app.StatusName, newStatus, note)
	}

	return &domain.BulkUpdateResult{
		UpdatedCount: len(apps),
		SkippedIDs:   skipped,
	}, nil
}

// ListStatuses returns the full status lookup set
func (uc *applicationUsecase) ListStatuses(ctx context.Context) ([]domain.ApplicationStatus, error) {
	statuses, err := uc.statuses.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return statuses, nil
}

func (uc *applicationUsecase) transitionEntry(applicationID, previousStatusID int64, previousStatus *string, newStatus *domain.ApplicationStatus, note string, actor *string) *domain.StatusHistoryEntry {
	entry := &domain.StatusHistoryEntry{
		ApplicationID:    applicationID,
		PreviousStatusID: &previousStatusID,
		StatusID:         newStatus.ID,
		PreviousStatus:   previousStatus,
		NewStatus:        newStatus.Name,
		ChangedBy:        actor,
	}
	if note != "" {
		entry.Note = &note
	}
	return entry
}

func (uc *applicationUsecase) enqueueTransition(app *domain.JobApplication, previousStatus *string, newStatus *domain.ApplicationStatus, note string) {
	event := domain.TransitionEvent{
		Kind:          domain.EventStatusChanged,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		CandidateID:   app.CandidateID,
		NewStatus:     newStatus.Name,
		OccurredAt:    time.Now(),
	}
	if previousStatus != nil {
		event.PreviousStatus = *previousStatus
	}
	if note != "" {
		event.Note = &note
	}
	uc.dispatcher.Enqueue(event)
}
