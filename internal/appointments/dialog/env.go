package dialog

import (
	"context"
	"time"

	"frontdesk/internal/activity"
	"frontdesk/internal/appointments/errmap"
	"frontdesk/internal/appointments/slots"
	"frontdesk/internal/appointments/validator"
	"frontdesk/internal/observability/metrics"
	"frontdesk/pkg/logger"
	"frontdesk/pkg/model"
)

const (
	KindBooking    = "booking"
	KindReschedule = "reschedule"

	DefaultReferenceTimeout = 15 * time.Second
	DefaultRecordTimeout    = 5 * time.Second
)

type AppointmentService interface {
	Book(ctx context.Context, req model.BookingRequest) (*model.Appointment, error)
	Reschedule(ctx context.Context, id int64, req model.RescheduleRequest) (*model.Appointment, error)
}

type PatientDirectory interface {
	List(ctx context.Context, page, limit int) (*model.Page[model.Patient], error)
}

type DoctorDirectory interface {
	List(ctx context.Context, page, limit int) (*model.Page[model.Doctor], error)
	Departments(ctx context.Context) ([]string, error)
}

// Env is what every dialog of a desk shares. Nil Recorder, Metrics and
// OnSuccess are allowed.
type Env struct {
	Appointments AppointmentService
	Patients     PatientDirectory
	Doctors      DoctorDirectory

	Validator *validator.BookingValidator
	Mapper    *errmap.Mapper
	Policy    slots.Policy

	Now      func() time.Time
	Recorder activity.Recorder
	Metrics  *metrics.DeskMetrics
	Logger   *logger.Logger

	ReferencePageLimit int
	ReferenceTimeout   time.Duration

	// OnSuccess runs after an accepted submission, outside the dialog lock.
	OnSuccess func(ctx context.Context, message string)
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) referenceTimeout() time.Duration {
	if e.ReferenceTimeout > 0 {
		return e.ReferenceTimeout
	}
	return DefaultReferenceTimeout
}

func (e *Env) record(ctx context.Context, log *logger.Logger, event activity.Event) {
	if e.Recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultRecordTimeout)
	defer cancel()

	if err := e.Recorder.Record(ctx, event); err != nil {
		log.Warn("Failed to record activity", "event_type", event.Type, "error", err)
	}
}
