package model

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

// Actionable reports whether the appointment can still be rescheduled,
// cancelled, completed or marked as a no-show.
func (s AppointmentStatus) Actionable() bool {
	return s == StatusScheduled
}

type Appointment struct {
	AppointmentID   int64             `json:"appointmentId"`
	PatientID       int64             `json:"patientId"`
	DoctorID        int64             `json:"doctorId"`
	Department      string            `json:"department"`
	SlotStart       LocalDateTime     `json:"slotStart"`
	SlotEnd         LocalDateTime     `json:"slotEnd"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       LocalDateTime     `json:"createdAt"`
	RescheduleCount int               `json:"rescheduleCount"`
	Version         int64             `json:"version"`
}
