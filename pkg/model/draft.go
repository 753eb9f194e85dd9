package model

import "time"

type BookingDraft struct {
	PatientID  int64      `json:"patientId" validate:"required"`
	DoctorID   int64      `json:"doctorId" validate:"required"`
	Department string     `json:"department" validate:"required"`
	SlotStart  *time.Time `json:"slotStart" validate:"required"`
	SlotEnd    *time.Time `json:"slotEnd" validate:"required"`
}

type RescheduleDraft struct {
	AppointmentID int64      `json:"appointmentId"`
	NewSlotStart  *time.Time `json:"newSlotStart" validate:"required"`
	NewSlotEnd    *time.Time `json:"newSlotEnd" validate:"required"`
}

// BookingRequest is the body of POST /v1/appointments.
type BookingRequest struct {
	PatientID  int64         `json:"patientId"`
	DoctorID   int64         `json:"doctorId"`
	Department string        `json:"department"`
	SlotStart  LocalDateTime `json:"slotStart"`
	SlotEnd    LocalDateTime `json:"slotEnd"`
}

// RescheduleRequest is the body of PUT /v1/appointments/{id}/reschedule.
type RescheduleRequest struct {
	NewSlotStart LocalDateTime `json:"newSlotStart"`
	NewSlotEnd   LocalDateTime `json:"newSlotEnd"`
}

// Request converts a draft that already passed validation.
func (d BookingDraft) Request() BookingRequest {
	req := BookingRequest{
		PatientID:  d.PatientID,
		DoctorID:   d.DoctorID,
		Department: d.Department,
	}
	if d.SlotStart != nil {
		req.SlotStart = NewLocalDateTime(*d.SlotStart)
	}
	if d.SlotEnd != nil {
		req.SlotEnd = NewLocalDateTime(*d.SlotEnd)
	}
	return req
}

func (d RescheduleDraft) Request() RescheduleRequest {
	var req RescheduleRequest
	if d.NewSlotStart != nil {
		req.NewSlotStart = NewLocalDateTime(*d.NewSlotStart)
	}
	if d.NewSlotEnd != nil {
		req.NewSlotEnd = NewLocalDateTime(*d.NewSlotEnd)
	}
	return req
}
