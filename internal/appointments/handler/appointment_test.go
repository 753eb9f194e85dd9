package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"frontdesk/internal/activity"
	"frontdesk/internal/appointments/dialog"
	appointmentserrors "frontdesk/internal/appointments/errors"
	"frontdesk/internal/appointments/service"
	"frontdesk/internal/appointments/slots"
	apperrors "frontdesk/pkg/errors"
	"frontdesk/pkg/logger"
	"frontdesk/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBoard struct {
	showFunc   func(ctx context.Context, page int) (service.BoardView, error)
	actionFunc func(action string, id int64) (service.BoardView, error)
}

func (m *mockBoard) Show(ctx context.Context, page int) (service.BoardView, error) {
	if m.showFunc != nil {
		return m.showFunc(ctx, page)
	}
	return service.BoardView{Page: page, Appointments: []model.Appointment{}}, nil
}

func (m *mockBoard) act(action string, id int64) (service.BoardView, error) {
	if m.actionFunc != nil {
		return m.actionFunc(action, id)
	}
	return service.BoardView{}, nil
}

func (m *mockBoard) Cancel(_ context.Context, id int64) (service.BoardView, error) {
	return m.act(service.ActionCancel, id)
}

func (m *mockBoard) Complete(_ context.Context, id int64) (service.BoardView, error) {
	return m.act(service.ActionComplete, id)
}

func (m *mockBoard) NoShow(_ context.Context, id int64) (service.BoardView, error) {
	return m.act(service.ActionNoShow, id)
}

type mockDesk struct {
	openBookingFunc    func(ctx context.Context) (dialog.View, error)
	openRescheduleFunc func(ctx context.Context, id int64) (dialog.View, error)
	getFunc            func(id string) (dialog.View, error)
	applyFunc          func(id, field, value string) (dialog.View, error)
	submitFunc         func(ctx context.Context, id string) (dialog.View, error)
	closeFunc          func(id string) error
}

func (m *mockDesk) OpenBooking(ctx context.Context) (dialog.View, error) {
	if m.openBookingFunc != nil {
		return m.openBookingFunc(ctx)
	}
	return dialog.View{ID: "dlg-1", Kind: dialog.KindBooking, Open: true}, nil
}

func (m *mockDesk) OpenReschedule(ctx context.Context, id int64) (dialog.View, error) {
	if m.openRescheduleFunc != nil {
		return m.openRescheduleFunc(ctx, id)
	}
	return dialog.View{ID: "dlg-2", Kind: dialog.KindReschedule, AppointmentID: id, Open: true}, nil
}

func (m *mockDesk) Get(id string) (dialog.View, error) {
	if m.getFunc != nil {
		return m.getFunc(id)
	}
	return dialog.View{ID: id}, nil
}

func (m *mockDesk) Apply(id, field, value string) (dialog.View, error) {
	if m.applyFunc != nil {
		return m.applyFunc(id, field, value)
	}
	return dialog.View{ID: id}, nil
}

func (m *mockDesk) Submit(ctx context.Context, id string) (dialog.View, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, id)
	}
	return dialog.View{ID: id}, nil
}

func (m *mockDesk) Close(id string) error {
	if m.closeFunc != nil {
		return m.closeFunc(id)
	}
	return nil
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

var handlerNow = time.Date(2026, time.March, 10, 8, 0, 0, 0, time.Local)

func newTestRouter(board *mockBoard, desk *mockDesk, journal activity.Journal) *httprouter.Router {
	h := NewAppointmentHandler(board, desk, journal, slots.DefaultPolicy(model.DefaultClinicHours), logger.Discard())
	h.now = func() time.Time { return handlerNow }

	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, into))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ────────────────────────────────────────────────
// Board routes
// ────────────────────────────────────────────────

func TestListAppointments_Page(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantPage   int
	}{
		{name: "default page", query: "", wantStatus: http.StatusOK, wantPage: 1},
		{name: "explicit page", query: "?page=4", wantStatus: http.StatusOK, wantPage: 4},
		{name: "zero page normalized", query: "?page=0", wantStatus: http.StatusOK, wantPage: 1},
		{name: "non numeric page", query: "?page=abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			received := 0
			board := &mockBoard{
				showFunc: func(_ context.Context, page int) (service.BoardView, error) {
					received = page
					return service.BoardView{Page: page, Appointments: []model.Appointment{}}, nil
				},
			}
			rec := serve(newTestRouter(board, &mockDesk{}, nil), http.MethodGet, "/api/v1/appointments"+tt.query, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantPage, received)
				var view service.BoardView
				decodeData(t, rec, &view)
				assert.Equal(t, tt.wantPage, view.Page)
			}
		})
	}
}

func TestListAppointments_UpstreamFailure(t *testing.T) {
	board := &mockBoard{
		showFunc: func(context.Context, int) (service.BoardView, error) {
			return service.BoardView{}, apperrors.Unavailable("Appointment service")
		},
	}
	rec := serve(newTestRouter(board, &mockDesk{}, nil), http.MethodGet, "/api/v1/appointments", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apperrors.CodeUnavailable, decodeError(t, rec).Code)
}

func TestBoardActions(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantAction string
	}{
		{name: "cancel", path: "/api/v1/appointments/5/cancel", wantStatus: http.StatusOK, wantAction: service.ActionCancel},
		{name: "complete", path: "/api/v1/appointments/5/complete", wantStatus: http.StatusOK, wantAction: service.ActionComplete},
		{name: "no-show", path: "/api/v1/appointments/5/no-show", wantStatus: http.StatusOK, wantAction: service.ActionNoShow},
		{name: "invalid id", path: "/api/v1/appointments/abc/cancel", wantStatus: http.StatusBadRequest},
		{name: "zero id", path: "/api/v1/appointments/0/cancel", wantStatus: http.StatusBadRequest},
		{
			name:       "not actionable",
			path:       "/api/v1/appointments/5/cancel",
			err:        fmt.Errorf("%w: appointment 5 is COMPLETED", appointmentserrors.ErrNotActionable),
			wantStatus: http.StatusConflict,
			wantAction: service.ActionCancel,
		},
		{
			name:       "not on page",
			path:       "/api/v1/appointments/5/complete",
			err:        appointmentserrors.ErrAppointmentNotFound,
			wantStatus: http.StatusNotFound,
			wantAction: service.ActionComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAction string
			var gotID int64
			board := &mockBoard{
				actionFunc: func(action string, id int64) (service.BoardView, error) {
					gotAction, gotID = action, id
					return service.BoardView{Banner: &dialog.Banner{Kind: dialog.BannerSuccess, Message: "ok"}}, tt.err
				},
			}
			rec := serve(newTestRouter(board, &mockDesk{}, nil), http.MethodPut, tt.path, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAction, gotAction)
			if tt.wantAction != "" {
				assert.Equal(t, int64(5), gotID)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Dialog routes
// ────────────────────────────────────────────────

func TestOpenBooking(t *testing.T) {
	rec := serve(newTestRouter(&mockBoard{}, &mockDesk{}, nil), http.MethodPost, "/api/v1/dialogs", "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	var view dialog.View
	decodeData(t, rec, &view)
	assert.Equal(t, "dlg-1", view.ID)
	assert.Equal(t, dialog.KindBooking, view.Kind)
}

func TestOpenReschedule(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{name: "scheduled", path: "/api/v1/appointments/12/reschedule", wantStatus: http.StatusCreated},
		{name: "not actionable", path: "/api/v1/appointments/12/reschedule", err: appointmentserrors.ErrNotActionable, wantStatus: http.StatusConflict},
		{name: "bad id", path: "/api/v1/appointments/x/reschedule", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desk := &mockDesk{
				openRescheduleFunc: func(_ context.Context, id int64) (dialog.View, error) {
					return dialog.View{ID: "dlg-2", AppointmentID: id}, tt.err
				},
			}
			rec := serve(newTestRouter(&mockBoard{}, desk, nil), http.MethodPost, tt.path, "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusCreated {
				var view dialog.View
				decodeData(t, rec, &view)
				assert.Equal(t, int64(12), view.AppointmentID)
			}
		})
	}
}

func TestGetDialog_NotFound(t *testing.T) {
	desk := &mockDesk{
		getFunc: func(id string) (dialog.View, error) {
			return dialog.View{}, fmt.Errorf("%w: %s", appointmentserrors.ErrDialogNotFound, id)
		},
	}
	rec := serve(newTestRouter(&mockBoard{}, desk, nil), http.MethodGet, "/api/v1/dialogs/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Dialog not found", decodeError(t, rec).Message)
}

func TestEditDialog(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantField  string
		wantValue  string
	}{
		{name: "edit", body: `{"field":"patientId","value":"3"}`, wantStatus: http.StatusOK, wantField: "patientId", wantValue: "3"},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"field":`, wantStatus: http.StatusBadRequest},
		{name: "missing field", body: `{"value":"3"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"field":"notes","value":"x"}`, err: appointmentserrors.ErrUnknownField, wantStatus: http.StatusBadRequest, wantField: "notes", wantValue: "x"},
		{name: "in flight", body: `{"field":"date","value":"2026-03-11"}`, err: appointmentserrors.ErrSubmitInFlight, wantStatus: http.StatusConflict, wantField: "date", wantValue: "2026-03-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID, gotField, gotValue string
			desk := &mockDesk{
				applyFunc: func(id, field, value string) (dialog.View, error) {
					gotID, gotField, gotValue = id, field, value
					return dialog.View{ID: id}, tt.err
				},
			}
			rec := serve(newTestRouter(&mockBoard{}, desk, nil), http.MethodPost, "/api/v1/dialogs/dlg-1/edits", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantField, gotField)
			assert.Equal(t, tt.wantValue, gotValue)
			if tt.wantField != "" {
				assert.Equal(t, "dlg-1", gotID)
			}
		})
	}
}

func TestSubmitDialog(t *testing.T) {
	tests := []struct {
		name       string
		view       dialog.View
		err        error
		wantStatus int
	}{
		{
			name:       "rejected submission is still a response",
			view:       dialog.View{ID: "dlg-1", Open: true, Errors: model.FieldErrors{"slotStart": "Slot not available"}},
			wantStatus: http.StatusOK,
		},
		{name: "in flight", err: appointmentserrors.ErrSubmitInFlight, wantStatus: http.StatusConflict},
		{name: "closed", err: appointmentserrors.ErrDialogClosed, wantStatus: http.StatusConflict},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desk := &mockDesk{
				submitFunc: func(context.Context, string) (dialog.View, error) {
					return tt.view, tt.err
				},
			}
			rec := serve(newTestRouter(&mockBoard{}, desk, nil), http.MethodPost, "/api/v1/dialogs/dlg-1/submit", "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				var view dialog.View
				decodeData(t, rec, &view)
				assert.Equal(t, "Slot not available", view.Errors["slotStart"])
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "boom")
			}
		})
	}
}

func TestCloseDialog(t *testing.T) {
	closed := ""
	desk := &mockDesk{
		closeFunc: func(id string) error {
			closed = id
			return nil
		},
	}
	rec := serve(newTestRouter(&mockBoard{}, desk, nil), http.MethodDelete, "/api/v1/dialogs/dlg-9", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "dlg-9", closed)
}

// ────────────────────────────────────────────────
// Slots and activity
// ────────────────────────────────────────────────

func TestStartSlots(t *testing.T) {
	router := newTestRouter(&mockBoard{}, &mockDesk{}, nil)

	rec := serve(router, http.MethodGet, "/api/v1/slots?date=2026-03-11", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp SlotsResponse
	decodeData(t, rec, &resp)
	require.Len(t, resp.Slots, 18)
	assert.Equal(t, slots.TimeSlot{Value: "09:00", Label: "9:00 AM"}, resp.Slots[0])
	assert.Equal(t, slots.TimeSlot{Value: "17:30", Label: "5:30 PM"}, resp.Slots[17])

	rec = serve(router, http.MethodGet, "/api/v1/slots?date=2026-03-09", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &resp)
	assert.Empty(t, resp.Slots)

	rec = serve(router, http.MethodGet, "/api/v1/slots?date=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEndSlots(t *testing.T) {
	router := newTestRouter(&mockBoard{}, &mockDesk{}, nil)

	rec := serve(router, http.MethodGet, "/api/v1/slots/end?start=2026-03-11T14:00:00", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp SlotsResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, "2026-03-11T14:00:00", resp.Start)
	require.Len(t, resp.Slots, 7)
	assert.Equal(t, "14:30", resp.Slots[0].Value)
	assert.Equal(t, "17:30", resp.Slots[6].Value)

	rec = serve(router, http.MethodGet, "/api/v1/slots/end?start=14:00", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentActivity(t *testing.T) {
	journal := activity.NewMemoryJournal(10)
	for i, eventType := range []string{activity.TypeBooked, activity.TypeCancelled, activity.TypeRescheduled} {
		e := activity.NewEvent(eventType, activity.OutcomeSuccess, handlerNow.Add(time.Duration(i)*time.Minute))
		require.NoError(t, journal.Record(context.Background(), e))
	}
	router := newTestRouter(&mockBoard{}, &mockDesk{}, journal)

	rec := serve(router, http.MethodGet, "/api/v1/activity?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var events []activity.Event
	decodeData(t, rec, &events)
	require.Len(t, events, 2)
	assert.Equal(t, activity.TypeRescheduled, events[0].Type)
	assert.Equal(t, activity.TypeCancelled, events[1].Type)
}

func TestRecentActivity_DisabledWithoutJournal(t *testing.T) {
	rec := serve(newTestRouter(&mockBoard{}, &mockDesk{}, nil), http.MethodGet, "/api/v1/activity", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ────────────────────────────────────────────────
// Health
// ────────────────────────────────────────────────

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context, *readpref.ReadPref) error {
	return m.err
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		database   Pinger
		path       string
		wantStatus int
		wantDB     string
	}{
		{name: "health", path: "/health", wantStatus: http.StatusOK},
		{name: "ready without journal", path: "/ready", wantStatus: http.StatusOK},
		{name: "ready with database", database: mockPinger{}, path: "/ready", wantStatus: http.StatusOK, wantDB: "ok"},
		{name: "database down", database: mockPinger{err: errors.New("no reachable servers")}, path: "/ready", wantStatus: http.StatusServiceUnavailable, wantDB: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(tt.database, logger.Discard()).RegisterRoutes(router)

			rec := serve(router, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantDB, resp.Database)
		})
	}
}
