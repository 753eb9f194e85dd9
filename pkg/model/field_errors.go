package model

const (
	FieldPatientID    = "patientId"
	FieldDoctorID     = "doctorId"
	FieldDepartment   = "department"
	FieldSlotStart    = "slotStart"
	FieldSlotEnd      = "slotEnd"
	FieldNewSlotStart = "newSlotStart"
	FieldNewSlotEnd   = "newSlotEnd"
)

// RescheduleFields maps booking slot fields onto the reschedule form inputs.
var RescheduleFields = map[string]string{
	FieldSlotStart: FieldNewSlotStart,
	FieldSlotEnd:   FieldNewSlotEnd,
}

// FieldErrors holds one message per currently invalid input. Valid fields are
// absent, never present with an empty message.
type FieldErrors map[string]string

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

func (f FieldErrors) Set(field, message string) {
	f[field] = message
}

func (f FieldErrors) Clear(field string) {
	delete(f, field)
}

func (f FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Remap renames keys present in mapping and drops every other key.
func (f FieldErrors) Remap(mapping map[string]string) FieldErrors {
	out := FieldErrors{}
	for from, to := range mapping {
		if msg, ok := f[from]; ok {
			out[to] = msg
		}
	}
	return out
}
