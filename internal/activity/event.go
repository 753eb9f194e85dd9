// Package activity records the terminal outcome of every booking, reschedule
// and board action. Drafts are never recorded.
package activity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TypeBooked      = "appointment.booked"
	TypeRescheduled = "appointment.rescheduled"
	TypeCancelled   = "appointment.cancelled"
	TypeCompleted   = "appointment.completed"
	TypeNoShow      = "appointment.no_show"
	TypeRejected    = "submission.rejected"
)

const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeUnreachable = "unreachable"
)

type Event struct {
	ID            string    `json:"id" bson:"_id"`
	Type          string    `json:"type" bson:"type"`
	DialogID      string    `json:"dialogId,omitempty" bson:"dialog_id,omitempty"`
	AppointmentID int64     `json:"appointmentId,omitempty" bson:"appointment_id,omitempty"`
	Outcome       string    `json:"outcome" bson:"outcome"`
	Message       string    `json:"message,omitempty" bson:"message,omitempty"`
	CorrelationID string    `json:"correlationId,omitempty" bson:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurredAt" bson:"occurred_at"`
}

// NewEvent stamps a fresh id on an event of the given type.
func NewEvent(eventType, outcome string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Outcome:    outcome,
		OccurredAt: at,
	}
}

type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Journal is a Recorder that can be read back.
type Journal interface {
	Recorder
	Recent(ctx context.Context, limit int) ([]Event, error)
}

type RecorderFunc func(ctx context.Context, e Event) error

func (f RecorderFunc) Record(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Multi fans an event out to every recorder and joins their failures.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type nop struct{}

func (nop) Record(context.Context, Event) error { return nil }

func Nop() Recorder {
	return nop{}
}
