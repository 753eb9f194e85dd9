package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"frontdesk/internal/appointments/dialog"
	appointmentserrors "frontdesk/internal/appointments/errors"
	"frontdesk/internal/observability/metrics"
	"frontdesk/pkg/logger"

	"github.com/google/uuid"
)

// Dialog is the part of a booking or reschedule dialog the desk drives.
type Dialog interface {
	ID() string
	Kind() string
	Apply(field, value string) error
	Submit(ctx context.Context) error
	Close()
	IsOpen() bool
	View() dialog.View
}

// Desk keeps the open dialogs addressable by id. A dialog leaves the desk
// once it is closed, either explicitly, by an accepted submission or by
// sitting idle past the expiry started with StartExpiry.
type Desk struct {
	env     dialog.Env
	board   *Board
	metrics *metrics.DeskMetrics
	log     *logger.Logger
	newID   func() string
	now     func() time.Time

	mu      sync.RWMutex
	dialogs map[string]Dialog
	touched map[string]time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewDesk copies env; accepted submissions are announced on board before any
// OnSuccess already set on env runs.
func NewDesk(env *dialog.Env, board *Board) *Desk {
	shared := *env
	next := env.OnSuccess
	shared.OnSuccess = func(ctx context.Context, message string) {
		board.Announce(ctx, message)
		if next != nil {
			next(ctx, message)
		}
	}

	return &Desk{
		env:     shared,
		board:   board,
		metrics: env.Metrics,
		log:     env.Logger.With("component", "desk"),
		newID:   uuid.NewString,
		now:     time.Now,
		dialogs: make(map[string]Dialog),
		touched: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
	}
}

func (d *Desk) OpenBooking(ctx context.Context) (dialog.View, error) {
	booking := dialog.NewBookingDialog(d.newID(), &d.env)
	if err := booking.Open(ctx); err != nil {
		return dialog.View{}, err
	}
	d.register(booking)
	return booking.View(), nil
}

// OpenReschedule opens a reschedule dialog for an appointment of the board's
// current page.
func (d *Desk) OpenReschedule(ctx context.Context, appointmentID int64) (dialog.View, error) {
	appointment, err := d.board.Find(appointmentID)
	if err != nil {
		return dialog.View{}, err
	}

	reschedule := dialog.NewRescheduleDialog(d.newID(), &d.env, appointment)
	if err := reschedule.Open(ctx); err != nil {
		return dialog.View{}, err
	}
	d.register(reschedule)
	return reschedule.View(), nil
}

// WaitReferenceData blocks until a booking dialog has its lists loaded.
// Other dialogs return immediately.
func (d *Desk) WaitReferenceData(ctx context.Context, id string) error {
	dlg, err := d.lookup(id)
	if err != nil {
		return err
	}
	if booking, ok := dlg.(*dialog.BookingDialog); ok {
		return booking.WaitReferenceData(ctx)
	}
	return nil
}

func (d *Desk) Get(id string) (dialog.View, error) {
	dlg, err := d.lookup(id)
	if err != nil {
		return dialog.View{}, err
	}
	return dlg.View(), nil
}

func (d *Desk) Apply(id, field, value string) (dialog.View, error) {
	dlg, err := d.lookup(id)
	if err != nil {
		return dialog.View{}, err
	}
	if err := dlg.Apply(field, value); err != nil {
		return dlg.View(), err
	}
	return dlg.View(), nil
}

// Submit returns the dialog's view after the attempt. The view of an accepted
// submission is the last one; the dialog is gone afterwards.
func (d *Desk) Submit(ctx context.Context, id string) (dialog.View, error) {
	dlg, err := d.lookup(id)
	if err != nil {
		return dialog.View{}, err
	}

	err = dlg.Submit(ctx)
	view := dlg.View()
	if !dlg.IsOpen() {
		d.remove(id)
	}
	if err != nil && !errors.Is(err, appointmentserrors.ErrSubmitInFlight) {
		d.log.Warn("Submit failed", "dialog_id", id, "error", err)
	}
	return view, err
}

func (d *Desk) Close(id string) error {
	dlg, err := d.lookup(id)
	if err != nil {
		return err
	}
	dlg.Close()
	d.remove(id)
	return nil
}

// Len reports how many dialogs are open.
func (d *Desk) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.dialogs)
}

// StartExpiry closes dialogs left untouched for longer than ttl until Stop.
func (d *Desk) StartExpiry(ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(max(ttl/2, time.Second))
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.ExpireIdle(ttl)
			case <-d.stopCh:
				return
			}
		}
	}()
}

func (d *Desk) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
	})
}

// ExpireIdle closes the dialogs untouched for longer than ttl and reports how
// many it closed. A dialog with a submission in flight is kept.
func (d *Desk) ExpireIdle(ttl time.Duration) int {
	cutoff := d.now().Add(-ttl)

	d.mu.Lock()
	var idle []Dialog
	for id, dlg := range d.dialogs {
		if !d.touched[id].Before(cutoff) || dlg.View().Busy {
			continue
		}
		idle = append(idle, dlg)
		delete(d.dialogs, id)
		delete(d.touched, id)
	}
	d.mu.Unlock()

	for _, dlg := range idle {
		dlg.Close()
		d.metrics.DialogClosed()
		d.log.Info("Dialog expired", "dialog_id", dlg.ID(), "dialog", dlg.Kind())
	}
	return len(idle)
}

func (d *Desk) register(dlg Dialog) {
	d.mu.Lock()
	d.dialogs[dlg.ID()] = dlg
	d.touched[dlg.ID()] = d.now()
	d.mu.Unlock()

	d.metrics.DialogOpened()
	d.log.Debug("Dialog opened", "dialog_id", dlg.ID(), "dialog", dlg.Kind())
}

func (d *Desk) remove(id string) {
	d.mu.Lock()
	_, ok := d.dialogs[id]
	delete(d.dialogs, id)
	delete(d.touched, id)
	d.mu.Unlock()

	if ok {
		d.metrics.DialogClosed()
	}
}

// lookup counts as activity on the dialog.
func (d *Desk) lookup(id string) (Dialog, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dlg, ok := d.dialogs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrDialogNotFound, id)
	}
	d.touched[id] = d.now()
	return dlg, nil
}
