package dialog

import (
	"context"
	"sync"
	"time"

	"frontdesk/internal/activity"
	appointmentserrors "frontdesk/internal/appointments/errors"
	"frontdesk/internal/observability/metrics"
	"frontdesk/pkg/client"
	"frontdesk/pkg/logger"
	"frontdesk/pkg/model"
)

// base holds what booking and reschedule dialogs have in common: the state
// machine, field errors, banner and the submission protocol. Every field is
// guarded by mu.
type base struct {
	id   string
	kind string
	env  *Env
	log  *logger.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	errors     model.FieldErrors
	banner     *Banner
	outcome    string
	last       *model.Appointment
}

func (b *base) init(id, kind string, env *Env) {
	b.id = id
	b.kind = kind
	b.env = env
	b.log = env.Logger.With("dialog_id", id, "dialog", kind)
	b.errors = model.FieldErrors{}
}

func (b *base) ID() string {
	return b.id
}

func (b *base) Kind() string {
	return b.kind
}

// open must be called with mu held.
func (b *base) open() error {
	next, err := Transition(b.state, Open)
	if err != nil {
		return err
	}
	b.state = next
	b.generation++
	b.errors = model.FieldErrors{}
	b.banner = nil
	b.outcome = ""
	b.last = nil
	return nil
}

// edit must be called with mu held. It validates that the form accepts input.
func (b *base) edit() error {
	switch b.state {
	case Submitting:
		return appointmentserrors.ErrSubmitInFlight
	case Idle, Succeeded:
		return appointmentserrors.ErrDialogClosed
	}
	next, err := Transition(b.state, Edit)
	if err != nil {
		return err
	}
	b.state = next
	return nil
}

// Close discards the dialog. A response still in flight is dropped on arrival.
func (b *base) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Idle {
		return
	}
	b.state, _ = Transition(b.state, Close)
	b.generation++
	b.log.Debug("Dialog closed")
}

func (b *base) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state != Idle
}

// viewBase must be called with mu held.
func (b *base) viewBase() View {
	return View{
		ID:          b.id,
		Kind:        b.kind,
		State:       b.state.String(),
		Open:        b.state != Idle,
		Busy:        b.state == Submitting,
		Errors:      b.errors.Clone(),
		Banner:      copyBanner(b.banner),
		Outcome:     b.outcome,
		Appointment: b.last,
	}
}

func copyBanner(b *Banner) *Banner {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

type call func(ctx context.Context) (*model.Appointment, error)

type submission struct {
	// prepare runs under the lock. It validates the draft and, when valid,
	// returns the remote call built from it.
	prepare func(now time.Time) (model.FieldErrors, call)
	// mapError attributes a rejection message to form fields.
	mapError func(message string) model.FieldErrors
	// reset clears the draft after acceptance; it runs under the lock.
	reset func()

	successMessage string
	eventType      string
	appointmentID  int64
}

func (b *base) submit(ctx context.Context, s submission) error {
	b.mu.Lock()
	switch b.state {
	case Submitting:
		b.mu.Unlock()
		b.env.Metrics.ObserveSubmission(b.kind, metrics.OutcomeIgnored)
		b.log.Debug("Submit ignored, request already in flight")
		return appointmentserrors.ErrSubmitInFlight
	case Idle, Succeeded:
		b.mu.Unlock()
		return appointmentserrors.ErrDialogClosed
	}

	fieldErrors, remote := s.prepare(b.env.now())
	if !fieldErrors.Empty() {
		next, err := Transition(b.state, Invalid)
		if err != nil {
			b.mu.Unlock()
			return err
		}
		b.state = next
		b.errors = fieldErrors
		b.banner = errorBanner(MessageFixErrors)
		b.outcome = metrics.OutcomeInvalid
		b.mu.Unlock()

		b.env.Metrics.ObserveSubmission(b.kind, metrics.OutcomeInvalid)
		b.log.Debug("Submission failed local validation", "fields", len(fieldErrors))
		return nil
	}

	next, err := Transition(b.state, Submit)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.state = next
	b.banner = nil
	b.outcome = ""
	generation := b.generation
	b.mu.Unlock()

	// The call outlives the caller; only Close abandons it.
	ctx = context.WithoutCancel(ctx)
	started := time.Now()
	appointment, callErr := remote(ctx)
	b.env.Metrics.ObserveSubmissionLatency(b.kind, time.Since(started))

	b.mu.Lock()
	if b.generation != generation || b.state != Submitting {
		b.mu.Unlock()
		b.log.Info("Discarding response for closed dialog", "error", callErr)
		return appointmentserrors.ErrDialogClosed
	}

	if callErr == nil {
		b.accept(s, appointment)
		b.mu.Unlock()

		b.afterAccepted(ctx, s, appointment)
		return nil
	}

	event, outcome := b.reject(s, callErr)
	b.mu.Unlock()

	b.env.Metrics.ObserveSubmission(b.kind, outcome)
	b.env.record(ctx, b.log, event)
	b.log.Warn("Submission rejected",
		"state", Editing.String(),
		"outcome", outcome,
		"message", event.Message,
		"correlation_id", event.CorrelationID,
	)
	return nil
}

// accept must be called with mu held.
func (b *base) accept(s submission, appointment *model.Appointment) {
	b.state, _ = Transition(b.state, Accepted)
	s.reset()
	b.errors = model.FieldErrors{}
	b.banner = successBanner(s.successMessage)
	b.outcome = metrics.OutcomeAccepted
	b.last = appointment
	b.state, _ = Transition(b.state, Acknowledge)
}

func (b *base) afterAccepted(ctx context.Context, s submission, appointment *model.Appointment) {
	appointmentID := s.appointmentID
	if appointment != nil && appointment.AppointmentID != 0 {
		appointmentID = appointment.AppointmentID
	}

	event := activity.NewEvent(s.eventType, activity.OutcomeSuccess, b.env.now())
	event.DialogID = b.id
	event.AppointmentID = appointmentID
	event.Message = s.successMessage
	event.CorrelationID = client.CorrelationID(ctx)

	b.env.Metrics.ObserveSubmission(b.kind, metrics.OutcomeAccepted)
	b.env.record(ctx, b.log, event)
	b.log.Info("Submission accepted", "state", Idle.String(), "outcome", metrics.OutcomeAccepted, "appointment_id", appointmentID)

	if b.env.OnSuccess != nil {
		b.env.OnSuccess(ctx, s.successMessage)
	}
}

// reject must be called with mu held. It leaves the dialog editable with the
// rejection shown and reports what should be recorded.
func (b *base) reject(s submission, err error) (activity.Event, string) {
	b.state, _ = Transition(b.state, Rejected)

	event := activity.NewEvent(activity.TypeRejected, activity.OutcomeRejected, b.env.now())
	event.DialogID = b.id
	event.AppointmentID = s.appointmentID

	if remoteErr, ok := client.AsRemoteError(err); ok {
		if mapped := s.mapError(remoteErr.Message); !mapped.Empty() {
			b.errors = mapped
		}
		b.banner = errorBanner(remoteErr.Message)
		event.Message = remoteErr.Message
		event.CorrelationID = remoteErr.CorrelationID
	} else if client.IsTransportError(err) {
		b.banner = errorBanner(MessageUnreachable)
		event.Outcome = activity.OutcomeUnreachable
		event.Message = err.Error()
	} else {
		b.banner = errorBanner(MessageUnexpected)
		event.Message = err.Error()
	}

	b.outcome = metrics.OutcomeRejected
	if event.Outcome == activity.OutcomeUnreachable {
		b.outcome = metrics.OutcomeUnreachable
	}
	b.state, _ = Transition(b.state, Acknowledge)
	return event, b.outcome
}
