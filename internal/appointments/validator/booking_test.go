package validator

import (
	"testing"
	"time"

	"frontdesk/pkg/logger"
	"frontdesk/pkg/model"

	"github.com/stretchr/testify/assert"
)

var clinic = model.ClinicHours{Start: 9, End: 18}

// 08:00 on 10 March; the earliest legal start that day is 10:00.
var now = time.Date(2026, time.March, 10, 8, 0, 0, 0, time.Local)

func slot(day, hour, minute int) *time.Time {
	t := time.Date(2026, time.March, day, hour, minute, 0, 0, time.Local)
	return &t
}

func validDraft() model.BookingDraft {
	return model.BookingDraft{
		PatientID:  7,
		DoctorID:   3,
		Department: "Cardiology",
		SlotStart:  slot(11, 10, 0),
		SlotEnd:    slot(11, 10, 30),
	}
}

func newValidator() *BookingValidator {
	return NewBookingValidator(logger.Discard(), 0)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *model.BookingDraft)
		want   model.FieldErrors
	}{
		{
			name:   "valid draft",
			mutate: func(d *model.BookingDraft) {},
			want:   model.FieldErrors{},
		},
		{
			name: "empty draft reports every required field",
			mutate: func(d *model.BookingDraft) {
				*d = model.BookingDraft{}
			},
			want: model.FieldErrors{
				model.FieldPatientID:  "Patient is required",
				model.FieldDoctorID:   "Doctor is required",
				model.FieldDepartment: "Department is required",
				model.FieldSlotStart:  "Start time is required",
				model.FieldSlotEnd:    "End time is required",
			},
		},
		{
			name: "end equal to start",
			mutate: func(d *model.BookingDraft) {
				d.SlotEnd = slot(11, 10, 0)
			},
			want: model.FieldErrors{model.FieldSlotEnd: "End time must be after start time"},
		},
		{
			name: "end before start",
			mutate: func(d *model.BookingDraft) {
				d.SlotStart = slot(11, 14, 0)
				d.SlotEnd = slot(11, 13, 30)
			},
			want: model.FieldErrors{model.FieldSlotEnd: "End time must be after start time"},
		},
		{
			name: "start before opening",
			mutate: func(d *model.BookingDraft) {
				d.SlotStart = slot(11, 8, 30)
				d.SlotEnd = slot(11, 9, 30)
			},
			want: model.FieldErrors{model.FieldSlotStart: "Appointment must be within clinic hours: 9:00 - 18:00"},
		},
		{
			name: "end at closing hour",
			mutate: func(d *model.BookingDraft) {
				d.SlotStart = slot(11, 17, 30)
				d.SlotEnd = slot(11, 18, 0)
			},
			want: model.FieldErrors{model.FieldSlotEnd: "Appointment must end before 18:00 (clinic closing time)"},
		},
		{
			name: "end after closing uses the closing message",
			mutate: func(d *model.BookingDraft) {
				d.SlotStart = slot(11, 17, 0)
				d.SlotEnd = slot(11, 19, 0)
			},
			want: model.FieldErrors{model.FieldSlotEnd: "Appointment must end before 18:00 (clinic closing time)"},
		},
		{
			name: "start within lead time",
			mutate: func(d *model.BookingDraft) {
				d.SlotStart = slot(10, 9, 30)
				d.SlotEnd = slot(10, 10, 0)
			},
			want: model.FieldErrors{model.FieldSlotStart: "Appointment must be at least 2 hours from now"},
		},
		{
			name: "start exactly at lead time is accepted",
			mutate: func(d *model.BookingDraft) {
				d.SlotStart = slot(10, 10, 0)
				d.SlotEnd = slot(10, 10, 30)
			},
			want: model.FieldErrors{},
		},
		{
			name: "lead time wins over clinic hours",
			mutate: func(d *model.BookingDraft) {
				d.SlotStart = slot(10, 7, 0)
				d.SlotEnd = slot(10, 9, 30)
			},
			want: model.FieldErrors{model.FieldSlotStart: "Appointment must be at least 2 hours from now"},
		},
		{
			name: "missing end still checks start",
			mutate: func(d *model.BookingDraft) {
				d.SlotStart = slot(11, 8, 0)
				d.SlotEnd = nil
			},
			want: model.FieldErrors{
				model.FieldSlotStart: "Appointment must be within clinic hours: 9:00 - 18:00",
				model.FieldSlotEnd:   "End time is required",
			},
		},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			got := v.Validate(draft, clinic, now)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Empty(), len(tt.want) == 0)
		})
	}
}

func TestValidate_IsIdempotentAndDoesNotMutate(t *testing.T) {
	v := newValidator()
	draft := validDraft()
	draft.SlotEnd = slot(11, 18, 0)
	before := *draft.SlotEnd

	first := v.Validate(draft, clinic, now)
	second := v.Validate(draft, clinic, now)

	assert.Equal(t, first, second)
	assert.Equal(t, before, *draft.SlotEnd)
}

func TestValidate_CustomLeadTime(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), 30*time.Minute)
	draft := validDraft()
	draft.SlotStart = slot(10, 8, 0)
	draft.SlotEnd = slot(10, 9, 30)

	got := v.Validate(draft, clinic, now)

	assert.Equal(t, "Appointment must be at least 30 minutes from now", got[model.FieldSlotStart])
}

func TestValidateReschedule(t *testing.T) {
	tests := []struct {
		name  string
		draft model.RescheduleDraft
		want  model.FieldErrors
	}{
		{
			name:  "valid",
			draft: model.RescheduleDraft{AppointmentID: 1, NewSlotStart: slot(12, 9, 0), NewSlotEnd: slot(12, 9, 30)},
			want:  model.FieldErrors{},
		},
		{
			name:  "missing both",
			draft: model.RescheduleDraft{AppointmentID: 1},
			want: model.FieldErrors{
				model.FieldNewSlotStart: "Start time is required",
				model.FieldNewSlotEnd:   "End time is required",
			},
		},
		{
			name:  "end outside hours",
			draft: model.RescheduleDraft{AppointmentID: 1, NewSlotStart: slot(12, 17, 0), NewSlotEnd: slot(12, 18, 0)},
			want:  model.FieldErrors{model.FieldNewSlotEnd: "End time must be between 9:00 and 17:59"},
		},
		{
			name:  "too soon",
			draft: model.RescheduleDraft{AppointmentID: 1, NewSlotStart: slot(10, 9, 0), NewSlotEnd: slot(10, 9, 30)},
			want:  model.FieldErrors{model.FieldNewSlotStart: "New slot must be at least 2 hours from now"},
		},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.ValidateReschedule(tt.draft, clinic, now))
		})
	}
}
