package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocal(t *testing.T) {
	want := time.Date(2026, 3, 11, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "full seconds", value: "2026-03-11T09:30:00", want: want},
		{name: "seconds omitted", value: "2026-03-11T09:30", want: want},
		{name: "fractional seconds", value: "2026-03-11T09:30:00.250", want: want.Add(250 * time.Millisecond)},
		{name: "date only", value: "2026-03-11", wantErr: true},
		{name: "zone suffix", value: "2026-03-11T09:30:00Z", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocal(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.Local, got.Location())
		})
	}
}

func TestLocalDateTime_JSON(t *testing.T) {
	at := time.Date(2026, 3, 11, 14, 0, 0, 0, time.Local)

	data, err := json.Marshal(RescheduleRequest{NewSlotStart: NewLocalDateTime(at)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"newSlotStart":"2026-03-11T14:00:00","newSlotEnd":null}`, string(data))

	var appointment Appointment
	require.NoError(t, json.Unmarshal([]byte(`{"appointmentId":5,"slotStart":"2026-03-11T14:00","slotEnd":null,"createdAt":""}`), &appointment))
	assert.True(t, at.Equal(appointment.SlotStart.Time))
	assert.True(t, appointment.SlotEnd.IsZero())
	assert.True(t, appointment.CreatedAt.IsZero())
	assert.Equal(t, "2026-03-11T14:00:00", appointment.SlotStart.String())

	assert.Error(t, json.Unmarshal([]byte(`{"slotStart":1710000000}`), &appointment))
}

func TestClinicHours(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		wantErr bool
	}{
		{name: "default day", start: 9, end: 18},
		{name: "whole day", start: 0, end: 24},
		{name: "reversed", start: 18, end: 9, wantErr: true},
		{name: "empty", start: 9, end: 9, wantErr: true},
		{name: "past midnight", start: 20, end: 25, wantErr: true},
		{name: "negative", start: -1, end: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, err := NewClinicHours(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start*60, hours.OpenMinute())
			assert.Equal(t, tt.end*60, hours.CloseMinute())
		})
	}

	assert.Equal(t, "9:00 - 18:00", DefaultClinicHours.String())
}

func TestFieldErrors_Remap(t *testing.T) {
	errs := FieldErrors{
		FieldDoctorID:  "Doctor not found",
		FieldSlotStart: "Slot overlaps",
		FieldSlotEnd:   "Slot overlaps",
	}

	remapped := errs.Remap(RescheduleFields)

	assert.Equal(t, FieldErrors{
		FieldNewSlotStart: "Slot overlaps",
		FieldNewSlotEnd:   "Slot overlaps",
	}, remapped)
	assert.Len(t, errs, 3)
	assert.True(t, FieldErrors{FieldDoctorID: "x"}.Remap(RescheduleFields).Empty())
}

func TestFieldErrors_Clone(t *testing.T) {
	errs := FieldErrors{FieldPatientID: "Patient is required"}
	clone := errs.Clone()
	clone.Clear(FieldPatientID)
	clone.Set(FieldDepartment, "Department is required")

	assert.True(t, errs.Has(FieldPatientID))
	assert.False(t, errs.Has(FieldDepartment))
	assert.False(t, clone.Has(FieldPatientID))
}

func TestDraftRequest(t *testing.T) {
	start := time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)

	req := BookingDraft{PatientID: 1, DoctorID: 7, Department: "Cardiology", SlotStart: &start, SlotEnd: &end}.Request()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"patientId": 1,
		"doctorId": 7,
		"department": "Cardiology",
		"slotStart": "2026-03-11T09:00:00",
		"slotEnd": "2026-03-11T10:00:00"
	}`, string(data))
}

func TestDoctorsInDepartment(t *testing.T) {
	doctors := []Doctor{
		{DoctorID: 7, Department: "Cardiology"},
		{DoctorID: 8, Department: "Neurology"},
		{DoctorID: 9, Department: "Neurology"},
	}

	assert.Len(t, DoctorsInDepartment(doctors, ""), 3)
	assert.Len(t, DoctorsInDepartment(doctors, "Neurology"), 2)
	assert.Empty(t, DoctorsInDepartment(doctors, "Oncology"))

	found, ok := FindDoctor(doctors, 8)
	assert.True(t, ok)
	assert.Equal(t, "Neurology", found.Department)
	_, ok = FindDoctor(doctors, 1)
	assert.False(t, ok)
}

func TestAppointmentStatus_Actionable(t *testing.T) {
	assert.True(t, StatusScheduled.Actionable())
	for _, s := range []AppointmentStatus{StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.False(t, s.Actionable(), s)
	}
}
