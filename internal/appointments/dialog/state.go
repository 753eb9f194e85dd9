package dialog

import (
	"fmt"

	appointmentserrors "frontdesk/internal/appointments/errors"
)

type State int

const (
	Idle State = iota
	Editing
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Event int

const (
	Open Event = iota
	Edit
	Submit
	Invalid
	Accepted
	Rejected
	Acknowledge
	Close
)

func (e Event) String() string {
	switch e {
	case Open:
		return "open"
	case Edit:
		return "edit"
	case Submit:
		return "submit"
	case Invalid:
		return "invalid"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Acknowledge:
		return "acknowledge"
	case Close:
		return "close"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

type transitionKey struct {
	from  State
	event Event
}

var transitions = map[transitionKey]State{
	{Idle, Open}:  Editing,
	{Idle, Close}: Idle,

	{Editing, Edit}:    Editing,
	{Editing, Submit}:  Submitting,
	{Editing, Invalid}: Editing,
	{Editing, Close}:   Idle,

	{Submitting, Accepted}: Succeeded,
	{Submitting, Rejected}: Failed,
	{Submitting, Close}:    Idle,

	{Succeeded, Acknowledge}: Idle,
	{Succeeded, Close}:       Idle,

	{Failed, Acknowledge}: Editing,
	{Failed, Edit}:        Editing,
	{Failed, Close}:       Idle,
}

// Transition is the dialog state machine. Pairs missing from the table wrap
// ErrIllegalTransition.
func Transition(from State, event Event) (State, error) {
	if to, ok := transitions[transitionKey{from, event}]; ok {
		return to, nil
	}
	return from, fmt.Errorf("%w: %s on %s", appointmentserrors.ErrIllegalTransition, event, from)
}
