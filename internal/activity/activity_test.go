package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"frontdesk/pkg/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	PublishFunc func(ctx context.Context, msg kafka.Message) error
	published   []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, msg)
	}
	return nil
}

var occurred = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func TestKafkaRecorder_Record(t *testing.T) {
	pub := &mockPublisher{}
	rec := NewKafkaRecorder(pub, "frontdesk")

	e := NewEvent(TypeBooked, OutcomeSuccess, occurred)
	e.AppointmentID = 42
	e.DialogID = "dlg-1"
	e.CorrelationID = "corr-9"

	require.NoError(t, rec.Record(context.Background(), e))
	require.Len(t, pub.published, 1)

	msg := pub.published[0]
	assert.Equal(t, "42", msg.Key)
	assert.Equal(t, e.ID, msg.GetEventID())
	assert.Equal(t, TypeBooked, msg.GetEventType())
	assert.Equal(t, "corr-9", msg.GetCorrelationID())
	assert.Equal(t, "frontdesk", msg.Headers[kafka.HeaderSource])

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, e, decoded)
}

func TestKafkaRecorder_KeyFallsBackToDialog(t *testing.T) {
	pub := &mockPublisher{}
	rec := NewKafkaRecorder(pub, "frontdesk")

	e := NewEvent(TypeRejected, OutcomeRejected, occurred)
	e.DialogID = "dlg-7"

	require.NoError(t, rec.Record(context.Background(), e))
	assert.Equal(t, "dlg-7", pub.published[0].Key)
}

func TestKafkaRecorder_PublishFailure(t *testing.T) {
	pub := &mockPublisher{PublishFunc: func(context.Context, kafka.Message) error {
		return errors.New("broker down")
	}}

	err := NewKafkaRecorder(pub, "frontdesk").Record(context.Background(), NewEvent(TypeCancelled, OutcomeSuccess, occurred))

	require.Error(t, err)
	assert.Contains(t, err.Error(), TypeCancelled)
}

func TestMulti_RecordsEverywhereAndJoinsErrors(t *testing.T) {
	var seen []string
	ok := RecorderFunc(func(_ context.Context, e Event) error {
		seen = append(seen, "ok:"+e.Type)
		return nil
	})
	failing := RecorderFunc(func(_ context.Context, e Event) error {
		seen = append(seen, "failing:"+e.Type)
		return errors.New("sink down")
	})

	err := Multi{failing, nil, ok}.Record(context.Background(), NewEvent(TypeNoShow, OutcomeSuccess, occurred))

	assert.EqualError(t, err, "sink down")
	assert.Equal(t, []string{"failing:" + TypeNoShow, "ok:" + TypeNoShow}, seen)
	assert.NoError(t, Multi{ok}.Record(context.Background(), Event{}))
	assert.NoError(t, Nop().Record(context.Background(), Event{}))
}

func TestMemoryJournal_NewestFirstAndBounded(t *testing.T) {
	j := NewMemoryJournal(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		e := NewEvent(TypeBooked, OutcomeSuccess, occurred.Add(time.Duration(i)*time.Minute))
		e.Message = fmt.Sprint(i)
		require.NoError(t, j.Record(ctx, e))
	}

	got, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"5", "4", "3"}, []string{got[0].Message, got[1].Message, got[2].Message})

	got, err = j.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "5", got[0].Message)
}

func TestMemoryJournal_Empty(t *testing.T) {
	got, err := NewMemoryJournal(10).Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, MaxRecent, ClampLimit(0))
	assert.Equal(t, MaxRecent, ClampLimit(MaxRecent+1))
	assert.Equal(t, 25, ClampLimit(25))
}
