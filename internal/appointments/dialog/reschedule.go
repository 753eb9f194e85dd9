package dialog

import (
	"context"
	"fmt"
	"time"

	"frontdesk/internal/activity"
	appointmentserrors "frontdesk/internal/appointments/errors"
	"frontdesk/pkg/model"
)

// RescheduleDialog moves one scheduled appointment to a new slot.
type RescheduleDialog struct {
	base

	appointment model.Appointment
	draft       model.RescheduleDraft
}

func NewRescheduleDialog(id string, env *Env, appointment model.Appointment) *RescheduleDialog {
	d := &RescheduleDialog{appointment: appointment}
	d.init(id, KindReschedule, env)
	return d
}

// Open starts with an empty slot. Only scheduled appointments can be moved.
func (d *RescheduleDialog) Open(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.appointment.Status.Actionable() {
		return fmt.Errorf("%w: appointment %d is %s", appointmentserrors.ErrNotActionable, d.appointment.AppointmentID, d.appointment.Status)
	}
	if err := d.open(); err != nil {
		return err
	}
	d.draft = model.RescheduleDraft{AppointmentID: d.appointment.AppointmentID}
	return nil
}

func (d *RescheduleDialog) AppointmentID() int64 {
	return d.appointment.AppointmentID
}

func (d *RescheduleDialog) SelectDate(date time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.edit(); err != nil {
		return err
	}
	start := d.env.Policy.EarliestStart(date, d.env.now())
	end := d.env.Policy.DefaultEnd(start)
	d.draft.NewSlotStart, d.draft.NewSlotEnd = &start, &end
	d.errors.Clear(model.FieldNewSlotStart)
	d.errors.Clear(model.FieldNewSlotEnd)
	return nil
}

func (d *RescheduleDialog) SelectStartTime(value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.edit(); err != nil {
		return err
	}
	start, err := combineOnDraftDate(d.draft.NewSlotStart, value)
	if err != nil {
		return err
	}
	end := d.env.Policy.DefaultEnd(start)
	d.draft.NewSlotStart, d.draft.NewSlotEnd = &start, &end
	d.errors.Clear(model.FieldNewSlotStart)
	d.errors.Clear(model.FieldNewSlotEnd)
	return nil
}

func (d *RescheduleDialog) SelectEndTime(value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.edit(); err != nil {
		return err
	}
	end, err := combineEndOnStartDate(d.draft.NewSlotStart, value)
	if err != nil {
		return err
	}
	d.draft.NewSlotEnd = &end
	d.errors.Clear(model.FieldNewSlotEnd)
	return nil
}

func (d *RescheduleDialog) Apply(field, value string) error {
	switch field {
	case FieldDate:
		date, err := parseDate(value)
		if err != nil {
			return err
		}
		return d.SelectDate(date)
	case model.FieldNewSlotStart:
		return d.SelectStartTime(value)
	case model.FieldNewSlotEnd:
		return d.SelectEndTime(value)
	default:
		return fmt.Errorf("%w: %q", appointmentserrors.ErrUnknownField, field)
	}
}

func (d *RescheduleDialog) Submit(ctx context.Context) error {
	id := d.appointment.AppointmentID
	return d.submit(ctx, submission{
		prepare: func(now time.Time) (model.FieldErrors, call) {
			fieldErrors := d.env.Validator.ValidateReschedule(d.draft, d.env.Policy.Hours, now)
			if !fieldErrors.Empty() {
				return fieldErrors, nil
			}
			req := d.draft.Request()
			return nil, func(ctx context.Context) (*model.Appointment, error) {
				return d.env.Appointments.Reschedule(ctx, id, req)
			}
		},
		mapError: d.env.Mapper.MapReschedule,
		reset: func() {
			d.draft = model.RescheduleDraft{AppointmentID: id}
		},
		successMessage: MessageRescheduled,
		eventType:      activity.TypeRescheduled,
		appointmentID:  id,
	})
}

func (d *RescheduleDialog) Draft() model.RescheduleDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

func (d *RescheduleDialog) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.viewBase()
	v.AppointmentID = d.appointment.AppointmentID
	v.Date = datePart(d.draft.NewSlotStart)
	v.Draft = DraftView{
		NewSlotStart: localPtr(d.draft.NewSlotStart),
		NewSlotEnd:   localPtr(d.draft.NewSlotEnd),
	}
	v.StartSlots, v.EndSlots = slotOptions(d.env.Policy, d.draft.NewSlotStart, d.env.now())
	return v
}
