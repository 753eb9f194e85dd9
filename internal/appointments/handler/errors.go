package handler

import (
	"errors"

	appointmentserrors "frontdesk/internal/appointments/errors"
	apperrors "frontdesk/pkg/errors"
)

// toAppError maps domain sentinels onto HTTP-facing errors.
func toAppError(err error) error {
	if apperrors.IsAppError(err) {
		return err
	}

	switch {
	case errors.Is(err, appointmentserrors.ErrDialogNotFound):
		return apperrors.NotFound("Dialog")
	case errors.Is(err, appointmentserrors.ErrAppointmentNotFound):
		return apperrors.NotFound("Appointment")
	case errors.Is(err, appointmentserrors.ErrSubmitInFlight),
		errors.Is(err, appointmentserrors.ErrDialogClosed),
		errors.Is(err, appointmentserrors.ErrNotActionable),
		errors.Is(err, appointmentserrors.ErrIllegalTransition):
		return apperrors.Conflict(err.Error())
	case errors.Is(err, appointmentserrors.ErrUnknownField),
		errors.Is(err, appointmentserrors.ErrInvalidValue),
		errors.Is(err, appointmentserrors.ErrInvalidID):
		return apperrors.InvalidInput(err.Error())
	default:
		return apperrors.Internal("Request failed", err)
	}
}
