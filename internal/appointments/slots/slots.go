// Package slots turns a calendar date into the appointment times a patient may
// pick, under clinic hours and a minimum lead time.
//
// Every function is pure: the current time is always passed in.
package slots

import (
	"fmt"
	"time"

	"frontdesk/pkg/model"
)

const (
	DefaultStep     = 30 * time.Minute
	DefaultLeadTime = 2 * time.Hour
)

type TimeSlot struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Policy carries the rule parameters of the generator.
type Policy struct {
	Hours    model.ClinicHours
	Step     time.Duration
	LeadTime time.Duration
}

func DefaultPolicy(hours model.ClinicHours) Policy {
	return Policy{Hours: hours, Step: DefaultStep, LeadTime: DefaultLeadTime}
}

func StartSlots(hours model.ClinicHours, selectedDate, now time.Time) []TimeSlot {
	return DefaultPolicy(hours).StartSlots(selectedDate, now)
}

func EndSlots(hours model.ClinicHours, start time.Time) []TimeSlot {
	return DefaultPolicy(hours).EndSlots(start)
}

// StartSlots lists the legal start times of selectedDate. For today the list
// begins at now+LeadTime rounded up to the next step boundary and is empty
// once that instant reaches closing time. Past dates have no slots.
func (p Policy) StartSlots(selectedDate, now time.Time) []TimeSlot {
	first, ok := p.firstStartMinute(selectedDate, now)
	if !ok {
		return []TimeSlot{}
	}

	step := p.stepMinutes()
	slots := make([]TimeSlot, 0, (p.Hours.CloseMinute()-first)/step+1)
	for minute := first; minute < p.Hours.CloseMinute(); minute += step {
		slots = append(slots, slotAt(minute))
	}
	return slots
}

// EndSlots lists end times for a chosen start: from start+Step, stepping up to
// the closing boundary and stopping at the first candidate whose hour reaches
// the closing hour. With 9-18 hours the last end slot is 17:30.
func (p Policy) EndSlots(start time.Time) []TimeSlot {
	step := p.stepMinutes()
	startMinute := start.Hour()*60 + start.Minute()

	slots := []TimeSlot{}
	for minute := startMinute + step; minute <= p.Hours.CloseMinute(); minute += step {
		if minute/60 >= p.Hours.End {
			break
		}
		slots = append(slots, slotAt(minute))
	}
	return slots
}

// EarliestStart is the default start offered when a date is picked: the first
// start slot of that date, or opening time of the following day when the date
// has nothing left. Dates before today are treated as today.
func (p Policy) EarliestStart(selectedDate, now time.Time) time.Time {
	day := selectedDate
	if dayKey(day) < dayKey(now) {
		day = now
	}
	if slots := p.StartSlots(day, now); len(slots) > 0 {
		t, _ := Combine(day, slots[0].Value)
		return t
	}
	first := ceilTo(p.Hours.OpenMinute(), p.stepMinutes())
	y, m, d := day.Date()
	return time.Date(y, m, d+1, first/60, first%60, 0, 0, day.Location())
}

// DefaultEnd is the end time preselected for a start time.
func (p Policy) DefaultEnd(start time.Time) time.Time {
	return start.Add(p.Step)
}

func (p Policy) firstStartMinute(selectedDate, now time.Time) (int, bool) {
	step := p.stepMinutes()
	open := ceilTo(p.Hours.OpenMinute(), step)
	closing := p.Hours.CloseMinute()

	day, today := dayKey(selectedDate), dayKey(now)
	switch {
	case day < today:
		return 0, false
	case day > today:
		return open, open < closing
	}

	earliest := now.Add(p.LeadTime)
	if dayKey(earliest) > day {
		return 0, false
	}

	minute := earliest.Hour()*60 + earliest.Minute()
	if earliest.Second() > 0 || earliest.Nanosecond() > 0 {
		minute++
	}
	minute = ceilTo(minute, step)

	if minute >= closing {
		return 0, false
	}
	return max(minute, open), true
}

func (p Policy) stepMinutes() int {
	step := int(p.Step / time.Minute)
	if step <= 0 {
		return int(DefaultStep / time.Minute)
	}
	return step
}

// Combine places a "HH:MM" slot value on the calendar day of date.
func Combine(date time.Time, value string) (time.Time, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%2d:%2d", &hour, &minute); err != nil || len(value) != 5 {
		return time.Time{}, fmt.Errorf("invalid slot value %q, expected HH:MM", value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid slot value %q, expected HH:MM", value)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, date.Location()), nil
}

// FormatLabel renders a time of day on a 12-hour clock, e.g. "9:00 AM".
func FormatLabel(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour > 12:
		display = hour - 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}

func slotAt(minuteOfDay int) TimeSlot {
	hour, minute := minuteOfDay/60, minuteOfDay%60
	return TimeSlot{
		Value: fmt.Sprintf("%02d:%02d", hour, minute),
		Label: FormatLabel(hour, minute),
	}
}

func ceilTo(minute, step int) int {
	return (minute + step - 1) / step * step
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
