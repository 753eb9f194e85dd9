package dialog

import (
	"time"

	"frontdesk/internal/appointments/slots"
	"frontdesk/pkg/model"
)

const (
	BannerSuccess = "success"
	BannerError   = "error"

	MessageFixErrors   = "Please fix the form errors before submitting"
	MessageUnreachable = "Unable to reach the appointment service"
	MessageUnexpected  = "Unexpected response from the appointment service"
	MessageBooked      = "Appointment booked successfully!"
	MessageRescheduled = "Appointment rescheduled successfully!"
)

type Banner struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func successBanner(message string) *Banner {
	return &Banner{Kind: BannerSuccess, Message: message}
}

func errorBanner(message string) *Banner {
	return &Banner{Kind: BannerError, Message: message}
}

// DraftView is the draft as the UI renders it. Only the fields of the
// dialog's kind are set.
type DraftView struct {
	PatientID    int64                `json:"patientId,omitempty"`
	DoctorID     int64                `json:"doctorId,omitempty"`
	Department   string               `json:"department,omitempty"`
	SlotStart    *model.LocalDateTime `json:"slotStart,omitempty"`
	SlotEnd      *model.LocalDateTime `json:"slotEnd,omitempty"`
	NewSlotStart *model.LocalDateTime `json:"newSlotStart,omitempty"`
	NewSlotEnd   *model.LocalDateTime `json:"newSlotEnd,omitempty"`
}

// View is a consistent snapshot of a dialog.
type View struct {
	ID            string            `json:"id"`
	Kind          string            `json:"kind"`
	State         string            `json:"state"`
	Open          bool              `json:"open"`
	Busy          bool              `json:"busy"`
	AppointmentID int64             `json:"appointmentId,omitempty"`
	Date          string            `json:"date,omitempty"`
	Draft         DraftView         `json:"draft"`
	Errors        model.FieldErrors `json:"errors"`
	Banner        *Banner           `json:"banner,omitempty"`
	Outcome       string            `json:"outcome,omitempty"`

	Patients    []model.Patient  `json:"patients,omitempty"`
	Doctors     []model.Doctor   `json:"doctors,omitempty"`
	Departments []string         `json:"departments,omitempty"`
	StartSlots  []slots.TimeSlot `json:"startSlots"`
	EndSlots    []slots.TimeSlot `json:"endSlots"`

	Appointment *model.Appointment `json:"appointment,omitempty"`
}

func localPtr(t *time.Time) *model.LocalDateTime {
	if t == nil {
		return nil
	}
	l := model.NewLocalDateTime(*t)
	return &l
}

func datePart(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
