package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"frontdesk/internal/activity"
	"frontdesk/internal/appointments/dialog"
	appointmentserrors "frontdesk/internal/appointments/errors"
	"frontdesk/internal/observability/metrics"
	"frontdesk/pkg/client"
	"frontdesk/pkg/config"
	apperrors "frontdesk/pkg/errors"
	"frontdesk/pkg/logger"
	"frontdesk/pkg/model"
)

const (
	ActionCancel   = "cancel"
	ActionComplete = "complete"
	ActionNoShow   = "no_show"
)

const (
	MessageCancelled = "Appointment cancelled successfully!"
	MessageCompleted = "Appointment completed successfully!"
	MessageNoShow    = "Appointment marked as no-show!"
)

// AppointmentService is everything the desk needs from the appointment
// backend.
type AppointmentService interface {
	dialog.AppointmentService
	List(ctx context.Context, page, limit int) (*model.Page[model.Appointment], error)
	Cancel(ctx context.Context, id int64) (*model.Appointment, error)
	Complete(ctx context.Context, id int64) (*model.Appointment, error)
	NoShow(ctx context.Context, id int64) (*model.Appointment, error)
}

type BoardView struct {
	Appointments []model.Appointment `json:"appointments"`
	Page         int                 `json:"page"`
	Limit        int                 `json:"limit"`
	Total        int64               `json:"total"`
	TotalPages   int                 `json:"totalPages"`
	Banner       *dialog.Banner      `json:"banner,omitempty"`
}

// Board holds the page of appointments shown to staff and runs the status
// actions on it.
type Board struct {
	appointments AppointmentService
	recorder     activity.Recorder
	metrics      *metrics.DeskMetrics
	log          *logger.Logger
	limit        int
	now          func() time.Time

	mu      sync.Mutex
	page    int
	current model.Page[model.Appointment]
	banner  *dialog.Banner
}

func NewBoard(
	appointments AppointmentService,
	recorder activity.Recorder,
	deskMetrics *metrics.DeskMetrics,
	cfg *config.Config,
) *Board {
	if recorder == nil {
		recorder = activity.Nop()
	}
	return &Board{
		appointments: appointments,
		recorder:     recorder,
		metrics:      deskMetrics,
		log:          cfg.Log.With("component", "board"),
		limit:        cfg.AppointmentsPageLimit,
		now:          time.Now,
		page:         1,
	}
}

// Show loads the given 1-based page.
func (b *Board) Show(ctx context.Context, page int) (BoardView, error) {
	b.mu.Lock()
	b.page = config.NormalizePage(page)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// Refresh reloads the current page. On failure the previous list is kept and
// the banner carries the reason.
func (b *Board) Refresh(ctx context.Context) (BoardView, error) {
	b.mu.Lock()
	page := b.page
	b.mu.Unlock()

	result, err := b.appointments.List(ctx, page, b.limit)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.log.Error("Failed to load appointments", "page", page, "error", err)
		b.banner = &dialog.Banner{Kind: dialog.BannerError, Message: failureMessage(err)}
		return b.viewLocked(), translateRemote(err)
	}
	if page == b.page {
		b.current = *result
	}
	return b.viewLocked(), nil
}

// View returns the last loaded page without contacting the backend.
func (b *Board) View() BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// Announce shows message as a success banner and reloads the list. It is the
// hook dialogs call after an accepted submission.
func (b *Board) Announce(ctx context.Context, message string) {
	if _, err := b.Refresh(ctx); err != nil {
		b.log.Warn("Refresh after success failed", "error", err)
	}

	b.mu.Lock()
	b.banner = &dialog.Banner{Kind: dialog.BannerSuccess, Message: message}
	b.mu.Unlock()
}

// Find returns an appointment of the current page.
func (b *Board) Find(id int64) (model.Appointment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findLocked(id)
}

func (b *Board) Cancel(ctx context.Context, id int64) (BoardView, error) {
	return b.act(ctx, id, boardAction{
		name:      ActionCancel,
		eventType: activity.TypeCancelled,
		message:   MessageCancelled,
		call:      b.appointments.Cancel,
	})
}

func (b *Board) Complete(ctx context.Context, id int64) (BoardView, error) {
	return b.act(ctx, id, boardAction{
		name:      ActionComplete,
		eventType: activity.TypeCompleted,
		message:   MessageCompleted,
		call:      b.appointments.Complete,
	})
}

func (b *Board) NoShow(ctx context.Context, id int64) (BoardView, error) {
	return b.act(ctx, id, boardAction{
		name:      ActionNoShow,
		eventType: activity.TypeNoShow,
		message:   MessageNoShow,
		call:      b.appointments.NoShow,
	})
}

type boardAction struct {
	name      string
	eventType string
	message   string
	call      func(ctx context.Context, id int64) (*model.Appointment, error)
}

// act refuses appointments that are not scheduled without contacting the
// backend. A backend rejection is an outcome shown in the banner, not an error.
func (b *Board) act(ctx context.Context, id int64, action boardAction) (BoardView, error) {
	b.mu.Lock()
	appointment, err := b.findLocked(id)
	if err == nil && !appointment.Status.Actionable() {
		err = fmt.Errorf("%w: appointment %d is %s", appointmentserrors.ErrNotActionable, id, appointment.Status)
	}
	b.mu.Unlock()
	if err != nil {
		b.metrics.ObserveAction(action.name, metrics.OutcomeIgnored)
		return b.View(), err
	}

	_, callErr := action.call(ctx, id)
	if callErr != nil {
		message := failureMessage(callErr)
		event := activity.NewEvent(activity.TypeRejected, activity.OutcomeRejected, b.now())
		event.AppointmentID = id
		event.Message = message
		outcome := metrics.OutcomeRejected
		if remoteErr, ok := client.AsRemoteError(callErr); ok {
			event.CorrelationID = remoteErr.CorrelationID
		} else if client.IsTransportError(callErr) {
			event.Outcome = activity.OutcomeUnreachable
			outcome = metrics.OutcomeUnreachable
		}

		b.mu.Lock()
		b.banner = &dialog.Banner{Kind: dialog.BannerError, Message: message}
		view := b.viewLocked()
		b.mu.Unlock()

		b.metrics.ObserveAction(action.name, outcome)
		b.record(ctx, event)
		b.log.Warn("Appointment action rejected", "action", action.name, "appointment_id", id, "error", callErr)
		return view, nil
	}

	event := activity.NewEvent(action.eventType, activity.OutcomeSuccess, b.now())
	event.AppointmentID = id
	event.Message = action.message
	event.CorrelationID = client.CorrelationID(ctx)

	b.metrics.ObserveAction(action.name, metrics.OutcomeAccepted)
	b.record(ctx, event)
	b.log.Info("Appointment action applied", "action", action.name, "appointment_id", id)

	b.Announce(ctx, action.message)
	return b.View(), nil
}

func (b *Board) record(ctx context.Context, event activity.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dialog.DefaultRecordTimeout)
	defer cancel()

	if err := b.recorder.Record(ctx, event); err != nil {
		b.log.Warn("Failed to record activity", "event_type", event.Type, "error", err)
	}
}

func (b *Board) findLocked(id int64) (model.Appointment, error) {
	for _, a := range b.current.Items {
		if a.AppointmentID == id {
			return a, nil
		}
	}
	return model.Appointment{}, fmt.Errorf("%w: %d", appointmentserrors.ErrAppointmentNotFound, id)
}

func (b *Board) viewLocked() BoardView {
	items := make([]model.Appointment, len(b.current.Items))
	copy(items, b.current.Items)

	var banner *dialog.Banner
	if b.banner != nil {
		c := *b.banner
		banner = &c
	}
	return BoardView{
		Appointments: items,
		Page:         b.page,
		Limit:        b.limit,
		Total:        b.current.Total,
		TotalPages:   max(1, b.current.TotalPages),
		Banner:       banner,
	}
}

func failureMessage(err error) string {
	if remoteErr, ok := client.AsRemoteError(err); ok && remoteErr.Message != "" {
		return remoteErr.Message
	}
	if client.IsTransportError(err) {
		return dialog.MessageUnreachable
	}
	return dialog.MessageUnexpected
}

func translateRemote(err error) error {
	if remoteErr, ok := client.AsRemoteError(err); ok {
		return apperrors.Rejected(remoteErr.StatusCode, remoteErr.Message, err)
	}
	if client.IsTransportError(err) {
		return apperrors.Unavailable("Appointment service")
	}
	return apperrors.Internal("Failed to load appointments", err)
}
