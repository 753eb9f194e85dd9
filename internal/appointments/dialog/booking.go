package dialog

import (
	"context"
	"fmt"
	"time"

	"frontdesk/internal/activity"
	appointmentserrors "frontdesk/internal/appointments/errors"
	"frontdesk/internal/appointments/slots"
	"frontdesk/pkg/model"
	"frontdesk/pkg/sanitizer"

	"golang.org/x/sync/errgroup"
)

// BookingDialog drives the "book appointment" form.
type BookingDialog struct {
	base

	draft       model.BookingDraft
	patients    []model.Patient
	doctors     []model.Doctor
	departments []string
	refsDone    chan struct{}
}

func NewBookingDialog(id string, env *Env) *BookingDialog {
	d := &BookingDialog{refsDone: closedChan()}
	d.init(id, KindBooking, env)
	return d
}

// Open resets the form and starts loading patients, doctors and departments
// in the background. The dialog is usable before the loads finish.
func (d *BookingDialog) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.open(); err != nil {
		return err
	}
	d.draft = model.BookingDraft{}
	d.patients, d.doctors, d.departments = nil, nil, nil
	d.refsDone = make(chan struct{})

	go d.loadReferenceData(ctx, d.generation, d.refsDone)
	return nil
}

func (d *BookingDialog) loadReferenceData(parent context.Context, generation uint64, done chan struct{}) {
	defer close(done)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.env.referenceTimeout())
	defer cancel()

	limit := d.env.ReferencePageLimit
	var g errgroup.Group

	g.Go(func() error {
		page, err := d.env.Patients.List(ctx, 1, limit)
		d.env.Metrics.ObserveReferenceLoad("patients", err)
		if err != nil {
			d.log.Error("Failed to load patients", "error", err)
			return fmt.Errorf("patients: %w", err)
		}
		d.storeReference(generation, func() { d.patients = page.Items })
		return nil
	})
	g.Go(func() error {
		page, err := d.env.Doctors.List(ctx, 1, limit)
		d.env.Metrics.ObserveReferenceLoad("doctors", err)
		if err != nil {
			d.log.Error("Failed to load doctors", "error", err)
			return fmt.Errorf("doctors: %w", err)
		}
		d.storeReference(generation, func() { d.doctors = page.Items })
		return nil
	})
	g.Go(func() error {
		departments, err := d.env.Doctors.Departments(ctx)
		d.env.Metrics.ObserveReferenceLoad("departments", err)
		if err != nil {
			d.log.Error("Failed to load departments", "error", err)
			return fmt.Errorf("departments: %w", err)
		}
		d.storeReference(generation, func() { d.departments = departments })
		return nil
	})

	if err := g.Wait(); err != nil {
		d.log.Warn("Reference data incomplete", "error", err)
	}
}

func (d *BookingDialog) storeReference(generation uint64, store func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation == generation {
		store()
	}
}

// WaitReferenceData blocks until the loads started by the last Open finish.
func (d *BookingDialog) WaitReferenceData(ctx context.Context) error {
	d.mu.Lock()
	done := d.refsDone
	d.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *BookingDialog) SelectPatient(patientID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.edit(); err != nil {
		return err
	}
	d.draft.PatientID = patientID
	d.errors.Clear(model.FieldPatientID)
	return nil
}

// SelectDepartment narrows the doctor list and drops the chosen doctor.
func (d *BookingDialog) SelectDepartment(department string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.edit(); err != nil {
		return err
	}
	d.draft.Department = department
	d.draft.DoctorID = 0
	d.errors.Clear(model.FieldDepartment)
	return nil
}

// SelectDoctor also takes the department from the doctor record.
func (d *BookingDialog) SelectDoctor(doctorID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.edit(); err != nil {
		return err
	}
	d.draft.DoctorID = doctorID
	if doctor, ok := model.FindDoctor(d.doctors, doctorID); ok {
		d.draft.Department = doctor.Department
	} else {
		d.draft.Department = ""
	}
	d.errors.Clear(model.FieldDoctorID)
	return nil
}

// SelectDate preselects the earliest bookable start of date, rolling to the
// next day once the clinic is closed, and a default end.
func (d *BookingDialog) SelectDate(date time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.edit(); err != nil {
		return err
	}
	start := d.env.Policy.EarliestStart(date, d.env.now())
	end := d.env.Policy.DefaultEnd(start)
	d.draft.SlotStart, d.draft.SlotEnd = &start, &end
	d.errors.Clear(model.FieldSlotStart)
	d.errors.Clear(model.FieldSlotEnd)
	return nil
}

// SelectStartTime moves the start to value ("HH:MM") on the selected date and
// resets the end to one step later.
func (d *BookingDialog) SelectStartTime(value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.edit(); err != nil {
		return err
	}
	start, err := combineOnDraftDate(d.draft.SlotStart, value)
	if err != nil {
		return err
	}
	end := d.env.Policy.DefaultEnd(start)
	d.draft.SlotStart, d.draft.SlotEnd = &start, &end
	d.errors.Clear(model.FieldSlotStart)
	d.errors.Clear(model.FieldSlotEnd)
	return nil
}

func (d *BookingDialog) SelectEndTime(value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.edit(); err != nil {
		return err
	}
	end, err := combineEndOnStartDate(d.draft.SlotStart, value)
	if err != nil {
		return err
	}
	d.draft.SlotEnd = &end
	d.errors.Clear(model.FieldSlotEnd)
	return nil
}

// Apply performs the edit named by a form field.
func (d *BookingDialog) Apply(field, value string) error {
	switch field {
	case model.FieldPatientID:
		id, err := parseID(field, value)
		if err != nil {
			return err
		}
		return d.SelectPatient(id)
	case model.FieldDoctorID:
		id, err := parseID(field, value)
		if err != nil {
			return err
		}
		return d.SelectDoctor(id)
	case model.FieldDepartment:
		return d.SelectDepartment(sanitizer.NormalizeDepartment(value))
	case FieldDate:
		date, err := parseDate(value)
		if err != nil {
			return err
		}
		return d.SelectDate(date)
	case model.FieldSlotStart:
		return d.SelectStartTime(value)
	case model.FieldSlotEnd:
		return d.SelectEndTime(value)
	default:
		return fmt.Errorf("%w: %q", appointmentserrors.ErrUnknownField, field)
	}
}

func (d *BookingDialog) Submit(ctx context.Context) error {
	return d.submit(ctx, submission{
		prepare: func(now time.Time) (model.FieldErrors, call) {
			fieldErrors := d.env.Validator.Validate(d.draft, d.env.Policy.Hours, now)
			if !fieldErrors.Empty() {
				return fieldErrors, nil
			}
			req := d.draft.Request()
			return nil, func(ctx context.Context) (*model.Appointment, error) {
				return d.env.Appointments.Book(ctx, req)
			}
		},
		mapError:       d.env.Mapper.Map,
		reset:          func() { d.draft = model.BookingDraft{} },
		successMessage: MessageBooked,
		eventType:      activity.TypeBooked,
	})
}

func (d *BookingDialog) Draft() model.BookingDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

func (d *BookingDialog) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.viewBase()
	v.Date = datePart(d.draft.SlotStart)
	v.Draft = DraftView{
		PatientID:  d.draft.PatientID,
		DoctorID:   d.draft.DoctorID,
		Department: d.draft.Department,
		SlotStart:  localPtr(d.draft.SlotStart),
		SlotEnd:    localPtr(d.draft.SlotEnd),
	}
	v.Patients = d.patients
	v.Doctors = model.DoctorsInDepartment(d.doctors, d.draft.Department)
	v.Departments = d.departments
	v.StartSlots, v.EndSlots = slotOptions(d.env.Policy, d.draft.SlotStart, d.env.now())
	return v
}

func slotOptions(policy slots.Policy, start *time.Time, now time.Time) ([]slots.TimeSlot, []slots.TimeSlot) {
	if start == nil {
		return []slots.TimeSlot{}, []slots.TimeSlot{}
	}
	return policy.StartSlots(*start, now), policy.EndSlots(*start)
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
