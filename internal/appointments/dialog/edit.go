package dialog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	appointmentserrors "frontdesk/internal/appointments/errors"
	"frontdesk/internal/appointments/slots"
	"frontdesk/pkg/model"
)

// FieldDate is the calendar date input. It is not part of any draft; picking
// it sets the slot fields.
const FieldDate = "date"

func parseID(field, value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", appointmentserrors.ErrInvalidValue, field, value)
	}
	return id, nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", appointmentserrors.ErrInvalidValue, value)
	}
	return date, nil
}

// combineOnDraftDate accepts either a slot value ("HH:MM") placed on the day
// of current, or a full local datetime.
func combineOnDraftDate(current *time.Time, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > len("15:04") {
		t, err := model.ParseLocal(value)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", appointmentserrors.ErrInvalidValue, err)
		}
		return t, nil
	}

	if current == nil {
		return time.Time{}, fmt.Errorf("%w: pick a date before choosing a time", appointmentserrors.ErrInvalidValue)
	}
	t, err := slots.Combine(*current, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", appointmentserrors.ErrInvalidValue, err)
	}
	return t, nil
}

// combineEndOnStartDate is combineOnDraftDate for an end field: a full
// datetime must fall on the start's day.
func combineEndOnStartDate(start *time.Time, value string) (time.Time, error) {
	end, err := combineOnDraftDate(start, value)
	if err != nil {
		return time.Time{}, err
	}
	if start != nil && !sameDay(*start, end) {
		return time.Time{}, fmt.Errorf("%w: end must be on %s, got %q",
			appointmentserrors.ErrInvalidValue, start.Format(time.DateOnly), value)
	}
	return end, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
