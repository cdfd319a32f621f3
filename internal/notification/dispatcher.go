// Package notification implements the asynchronous fan-out triggered by
// application state changes. Delivery is best-effort and at-most-once:
// events are handed to a buffered channel consumed by a single background
// worker, the triggering request never waits, there is no retry queue, and
// every delivery failure is logged and swallowed.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-talent-pipeline/internal/domain"
	"go-talent-pipeline/pkg/email"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliveryTimeout = 10 * time.Second

// Mailer is the slice of the email service the dispatcher needs
type Mailer interface {
	SendStatusUpdateEmail(toEmail string, data email.StatusUpdateData) error
	IsConfigured() bool
}

// Dispatcher consumes transition events and fans them out to in-app
// notifications and email
type Dispatcher struct {
	events        chan domain.TransitionEvent
	notifications domain.NotificationRepository
	candidates    domain.CandidateSnapshotRepository
	jobs          domain.JobSnapshotRepository
	mailer        Mailer
	log           *zap.Logger
	sendEmails    bool

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher creates a dispatcher with the given buffer size. Call Start
// to launch the worker and Close on shutdown.
func NewDispatcher(
	bufferSize int,
	notifications domain.NotificationRepository,
	candidates domain.CandidateSnapshotRepository,
	jobs domain.JobSnapshotRepository,
	mailer Mailer,
	log *zap.Logger,
	sendEmails bool,
) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if log == nil {
		log, _ = zap.NewProduction()
	}
	return &Dispatcher{
		events:        make(chan domain.TransitionEvent, bufferSize),
		notifications: notifications,
		candidates:    candidates,
		jobs:          jobs,
		mailer:        mailer,
		log:           log,
		sendEmails:    sendEmails,
	}
}

// Start launches the background worker goroutine
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for event := range d.events {
			d.deliver(event)
		}
	}()
}

// Enqueue hands an event to the worker without blocking the caller. When the
// buffer is full the event is dropped and logged; the core's obligation ends
// at "message enqueued".
func (d *Dispatcher) Enqueue(event domain.TransitionEvent) {
	select {
	case d.events <- event:
	default:
		d.log.Warn("notification buffer full, dropping event",
			zap.String("kind", event.Kind),
			zap.Int64("application_id", event.ApplicationID),
		)
	}
}

// Close stops accepting events and waits for the worker to drain the buffer
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.events)
	})
	d.wg.Wait()
}

// deliver processes one event. Failures here are invisible to the request
// that triggered the event: everything is logged and discarded.
func (d *Dispatcher) deliver(event domain.TransitionEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification delivery panicked",
				zap.Int64("application_id", event.ApplicationID),
				zap.Any("panic", r),
			)
		}
	}()

	// No cancellation is threaded from the triggering request; once
	// scheduled the delivery runs to completion on its own clock.
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	contact, err := d.candidates.GetContact(ctx, event.CandidateID)
	if err != nil {
		d.log.Error("failed to resolve notification recipient",
			zap.Int64("application_id", event.ApplicationID),
			zap.String("candidate_id", event.CandidateID),
			zap.Error(err),
		)
		return
	}

	jobTitle := ""
	if job, err := d.jobs.GetSummary(ctx, event.JobID); err == nil {
		jobTitle = job.Title
	}

	title, body := d.renderMessage(event, jobTitle)
	notification := &domain.Notification{
		ID:            uuid.NewString(),
		RecipientID:   contact.ID,
		ApplicationID: event.ApplicationID,
		Kind:          event.Kind,
		Title:         title,
		Body:          body,
		CreatedAt:     time.Now(),
	}
	if err := d.notifications.Create(ctx, notification); err != nil {
		d.log.Error("failed to persist in-app notification",
			zap.Int64("application_id", event.ApplicationID),
			zap.Error(err),
		)
		// Keep going: the email half of the fan-out is independent
	}

	if event.Kind != domain.EventStatusChanged || !d.sendEmails || d.mailer == nil || !d.mailer.IsConfigured() {
		return
	}

	data := email.StatusUpdateData{
		CandidateName:  contact.FullName,
		JobTitle:       jobTitle,
		PreviousStatus: event.PreviousStatus,
		NewStatus:      event.NewStatus,
	}
	if event.Note != nil {
		data.Note = *event.Note
	}
	if err := d.mailer.SendStatusUpdateEmail(contact.Email, data); err != nil {
		d.log.Error("failed to send status update email",
			zap.Int64("application_id", event.ApplicationID),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) renderMessage(event domain.TransitionEvent, jobTitle string) (title, body string) {
	switch event.Kind {
	case domain.EventScoreComputed:
		title = "Application scored"
		score := 0.0
		if event.TotalScore != nil {
			score = *event.TotalScore
		}
		body = fmt.Sprintf("Application %d for %q was scored %.1f", event.ApplicationID, jobTitle, score)
	default:
		title = "Application status updated"
		body = fmt.Sprintf("Your application for %q moved from %q to %q", jobTitle, event.PreviousStatus, event.NewStatus)
	}
	return title, body
}
