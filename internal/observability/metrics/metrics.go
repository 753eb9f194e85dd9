package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by submissions and board actions.
const (
	OutcomeAccepted    = "accepted"
	OutcomeInvalid     = "invalid"
	OutcomeRejected    = "rejected"
	OutcomeUnreachable = "unreachable"
	OutcomeIgnored     = "ignored"
)

// DeskMetrics exposes counters/histograms for the appointment desk.
type DeskMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	submissionLatency  *prometheus.HistogramVec
	actionsTotal       *prometheus.CounterVec
	referenceLoadTotal *prometheus.CounterVec
	eventsTotal        *prometheus.CounterVec
	openDialogs        prometheus.Gauge
}

func NewDeskMetrics(reg prometheus.Registerer) *DeskMetrics {
	m := &DeskMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "dialog",
			Name:      "submissions_total",
			Help:      "Total booking and reschedule submissions by outcome",
		}, []string{"dialog", "outcome"}),
		submissionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "frontdesk",
			Subsystem: "dialog",
			Name:      "submission_latency_seconds",
			Help:      "Latency of the appointment service call made by a submission",
			Buckets:   prometheus.DefBuckets,
		}, []string{"dialog"}),
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "board",
			Name:      "actions_total",
			Help:      "Total cancel/complete/no-show actions by outcome",
		}, []string{"action", "outcome"}),
		referenceLoadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "dialog",
			Name:      "reference_loads_total",
			Help:      "Total patient/doctor/department list loads by status",
		}, []string{"resource", "status"}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Subsystem: "activity",
			Name:      "published_total",
			Help:      "Total activity events published to Kafka by status",
		}, []string{"event_type", "status"}),
		openDialogs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "frontdesk",
			Subsystem: "desk",
			Name:      "open_dialogs",
			Help:      "Dialogs currently open",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.submissionLatency, m.actionsTotal, m.referenceLoadTotal, m.eventsTotal, m.openDialogs)
	return m
}

func (m *DeskMetrics) ObserveSubmission(dialog, outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(dialog, outcome).Inc()
}

func (m *DeskMetrics) ObserveSubmissionLatency(dialog string, d time.Duration) {
	if m == nil {
		return
	}
	m.submissionLatency.WithLabelValues(dialog).Observe(d.Seconds())
}

func (m *DeskMetrics) ObserveAction(action, outcome string) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *DeskMetrics) ObserveReferenceLoad(resource string, err error) {
	if m == nil {
		return
	}
	m.referenceLoadTotal.WithLabelValues(resource, status(err)).Inc()
}

// ObservePublish satisfies kafka_middleware.PublishObserver.
func (m *DeskMetrics) ObservePublish(_, eventType string, err error, _ time.Duration) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(eventType, status(err)).Inc()
}

func (m *DeskMetrics) DialogOpened() {
	if m == nil {
		return
	}
	m.openDialogs.Inc()
}

func (m *DeskMetrics) DialogClosed() {
	if m == nil {
		return
	}
	m.openDialogs.Dec()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
