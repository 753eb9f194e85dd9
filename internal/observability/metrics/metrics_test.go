package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, metric prometheus.Metric) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, metric.Write(&pb))
	if pb.Gauge != nil {
		return pb.GetGauge().GetValue()
	}
	return pb.GetCounter().GetValue()
}

func TestDeskMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDeskMetrics(reg)

	m.ObserveSubmission("booking", OutcomeAccepted)
	m.ObserveSubmission("booking", OutcomeAccepted)
	m.ObserveSubmission("reschedule", OutcomeRejected)
	m.ObserveSubmissionLatency("booking", 120*time.Millisecond)
	m.ObserveAction("cancel", OutcomeAccepted)
	m.ObserveReferenceLoad("patients", nil)
	m.ObserveReferenceLoad("doctors", errors.New("down"))
	m.ObservePublish("frontdesk.activity", "appointment.booked", nil, time.Millisecond)
	m.DialogOpened()
	m.DialogOpened()
	m.DialogClosed()

	assert.Equal(t, 1.0, value(t, m.eventsTotal.WithLabelValues("appointment.booked", "ok")))
	assert.Equal(t, 2.0, value(t, m.submissionsTotal.WithLabelValues("booking", OutcomeAccepted)))
	assert.Equal(t, 1.0, value(t, m.submissionsTotal.WithLabelValues("reschedule", OutcomeRejected)))
	assert.Equal(t, 1.0, value(t, m.referenceLoadTotal.WithLabelValues("doctors", "error")))
	assert.Equal(t, 1.0, value(t, m.openDialogs))
}

func TestDeskMetricsNilSafe(t *testing.T) {
	var m *DeskMetrics
	m.ObserveSubmission("booking", OutcomeInvalid)
	m.ObserveSubmissionLatency("booking", time.Second)
	m.ObserveAction("complete", OutcomeUnreachable)
	m.ObserveReferenceLoad("departments", nil)
	m.ObservePublish("t", "e", nil, 0)
	m.DialogOpened()
	m.DialogClosed()
}
