package errors

import "errors"

var (
	ErrDialogNotFound = errors.New("dialog not found")

	ErrSubmitInFlight = errors.New("a submission is already in progress")

	ErrDialogClosed = errors.New("dialog is closed")

	ErrNotActionable = errors.New("only scheduled appointments can be changed")

	ErrUnknownField = errors.New("unknown form field")

	ErrInvalidValue = errors.New("invalid field value")

	ErrIllegalTransition = errors.New("illegal dialog state transition")

	ErrAppointmentNotFound = errors.New("appointment not found on the current page")

	ErrInvalidID = errors.New("invalid appointment ID")
)
