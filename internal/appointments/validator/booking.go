package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"frontdesk/internal/appointments/slots"
	"frontdesk/pkg/logger"
	"frontdesk/pkg/model"

	"github.com/go-playground/validator/v10"
)

var requiredMessages = map[string]string{
	model.FieldPatientID:    "Patient is required",
	model.FieldDoctorID:     "Doctor is required",
	model.FieldDepartment:   "Department is required",
	model.FieldSlotStart:    "Start time is required",
	model.FieldSlotEnd:      "End time is required",
	model.FieldNewSlotStart: "Start time is required",
	model.FieldNewSlotEnd:   "End time is required",
}

type BookingValidator struct {
	validate *validator.Validate
	leadTime time.Duration
	logger   *logger.Logger
}

// NewBookingValidator builds a validator enforcing leadTime between now and the
// start of a slot. A zero leadTime means slots.DefaultLeadTime.
func NewBookingValidator(log *logger.Logger, leadTime time.Duration) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if leadTime <= 0 {
		leadTime = slots.DefaultLeadTime
	}

	log.Debug("Booking validator initialized", "lead_time", leadTime.String())

	return &BookingValidator{
		validate: v,
		leadTime: leadTime,
		logger:   log,
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// Validate checks a booking draft. The result is empty when the draft may be
// submitted; otherwise it holds one message per offending field.
func (v *BookingValidator) Validate(draft model.BookingDraft, hours model.ClinicHours, now time.Time) model.FieldErrors {
	fieldErrors := v.structErrors(draft)

	if draft.SlotStart != nil && draft.SlotEnd != nil && !draft.SlotEnd.After(*draft.SlotStart) {
		fieldErrors.Set(model.FieldSlotEnd, "End time must be after start time")
	}

	within := fmt.Sprintf("Appointment must be within clinic hours: %s", hours)
	if draft.SlotStart != nil && !startHourAllowed(*draft.SlotStart, hours) {
		fieldErrors.Set(model.FieldSlotStart, within)
	}
	if draft.SlotEnd != nil {
		endHour := draft.SlotEnd.Hour()
		if endHour < hours.Start || endHour > hours.End {
			fieldErrors.Set(model.FieldSlotEnd, within)
		}
		if endHour >= hours.End {
			fieldErrors.Set(model.FieldSlotEnd, fmt.Sprintf("Appointment must end before %d:00 (clinic closing time)", hours.End))
		}
	}

	if draft.SlotStart != nil && draft.SlotStart.Before(now.Add(v.leadTime)) {
		fieldErrors.Set(model.FieldSlotStart, fmt.Sprintf("Appointment must be at least %s from now", describeDuration(v.leadTime)))
	}

	return fieldErrors
}

// ValidateReschedule applies the slot rules of Validate to a new slot and
// reports them under the reschedule inputs.
func (v *BookingValidator) ValidateReschedule(draft model.RescheduleDraft, hours model.ClinicHours, now time.Time) model.FieldErrors {
	fieldErrors := v.structErrors(draft)

	start, end := draft.NewSlotStart, draft.NewSlotEnd
	if start != nil && end != nil && !end.After(*start) {
		fieldErrors.Set(model.FieldNewSlotEnd, "End time must be after start time")
	}

	if start != nil && !startHourAllowed(*start, hours) {
		fieldErrors.Set(model.FieldNewSlotStart, fmt.Sprintf("Start time must be between %d:00 and %d:59", hours.Start, hours.End-1))
	}
	if end != nil && (end.Hour() < hours.Start || end.Hour() >= hours.End) {
		fieldErrors.Set(model.FieldNewSlotEnd, fmt.Sprintf("End time must be between %d:00 and %d:59", hours.Start, hours.End-1))
	}

	if start != nil && start.Before(now.Add(v.leadTime)) {
		fieldErrors.Set(model.FieldNewSlotStart, fmt.Sprintf("New slot must be at least %s from now", describeDuration(v.leadTime)))
	}

	return fieldErrors
}

func (v *BookingValidator) structErrors(draft any) model.FieldErrors {
	fieldErrors := model.FieldErrors{}

	if err := v.validate.Struct(draft); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			v.translateValidationErrors(validationErrs, fieldErrors)
		} else {
			v.logger.Warn("Draft could not be validated", "error", err)
		}
	}

	return fieldErrors
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors, into model.FieldErrors) {
	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			if msg, ok := requiredMessages[err.Field()]; ok {
				message = msg
			} else {
				message = fmt.Sprintf("%s is required", err.Field())
			}
		}

		into.Set(err.Field(), message)
	}
}

func startHourAllowed(start time.Time, hours model.ClinicHours) bool {
	return start.Hour() >= hours.Start && start.Hour() < hours.End
}

func describeDuration(d time.Duration) string {
	switch {
	case d%time.Hour == 0 && d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d == time.Minute:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
}
