package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"frontdesk/internal/activity"
	"frontdesk/internal/appointments/dialog"
	"frontdesk/internal/appointments/service"
	"frontdesk/internal/appointments/slots"
	apperrors "frontdesk/pkg/errors"
	httputil "frontdesk/pkg/http"
	"frontdesk/pkg/logger"
	"frontdesk/pkg/model"
)

type BoardService interface {
	Show(ctx context.Context, page int) (service.BoardView, error)
	Cancel(ctx context.Context, id int64) (service.BoardView, error)
	Complete(ctx context.Context, id int64) (service.BoardView, error)
	NoShow(ctx context.Context, id int64) (service.BoardView, error)
}

type DeskService interface {
	OpenBooking(ctx context.Context) (dialog.View, error)
	OpenReschedule(ctx context.Context, appointmentID int64) (dialog.View, error)
	Get(id string) (dialog.View, error)
	Apply(id, field, value string) (dialog.View, error)
	Submit(ctx context.Context, id string) (dialog.View, error)
	Close(id string) error
}

type EditRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type SlotsResponse struct {
	Date  string           `json:"date,omitempty"`
	Start string           `json:"start,omitempty"`
	Slots []slots.TimeSlot `json:"slots"`
}

type AppointmentHandler struct {
	board   BoardService
	desk    DeskService
	journal activity.Journal
	policy  slots.Policy
	now     func() time.Time
	log     *logger.Logger
}

func NewAppointmentHandler(
	board BoardService,
	desk DeskService,
	journal activity.Journal,
	policy slots.Policy,
	log *logger.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		board:   board,
		desk:    desk,
		journal: journal,
		policy:  policy,
		now:     time.Now,
		log:     log,
	}
}

func (h *AppointmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/appointments", h.ListAppointments)
	router.PUT("/api/v1/appointments/:id/cancel", h.Cancel)
	router.PUT("/api/v1/appointments/:id/complete", h.Complete)
	router.PUT("/api/v1/appointments/:id/no-show", h.NoShow)
	router.POST("/api/v1/appointments/:id/reschedule", h.OpenReschedule)

	router.POST("/api/v1/dialogs", h.OpenBooking)
	router.GET("/api/v1/dialogs/:dialog", h.GetDialog)
	router.POST("/api/v1/dialogs/:dialog/edits", h.EditDialog)
	router.POST("/api/v1/dialogs/:dialog/submit", h.SubmitDialog)
	router.DELETE("/api/v1/dialogs/:dialog", h.CloseDialog)

	router.GET("/api/v1/slots", h.StartSlots)
	router.GET("/api/v1/slots/end", h.EndSlots)

	if h.journal != nil {
		router.GET("/api/v1/activity", h.RecentActivity)
	}
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, "ListAppointments", err)
		return
	}

	view, err := h.board.Show(r.Context(), page)
	if err != nil {
		h.writeError(w, "ListAppointments", err)
		return
	}
	h.writeSuccess(w, "ListAppointments", view)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.boardAction(w, r, ps, "Cancel", h.board.Cancel)
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.boardAction(w, r, ps, "Complete", h.board.Complete)
}

func (h *AppointmentHandler) NoShow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.boardAction(w, r, ps, "NoShow", h.board.NoShow)
}

func (h *AppointmentHandler) boardAction(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	name string,
	action func(ctx context.Context, id int64) (service.BoardView, error),
) {
	id, err := httputil.ParseID(ps.ByName("id"))
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	view, err := action(r.Context(), id)
	if err != nil {
		h.writeError(w, name, err)
		return
	}
	h.writeSuccess(w, name, view)
}

func (h *AppointmentHandler) OpenBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view, err := h.desk.OpenBooking(r.Context())
	if err != nil {
		h.writeError(w, "OpenBooking", err)
		return
	}
	h.writeCreated(w, "OpenBooking", view)
}

func (h *AppointmentHandler) OpenReschedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps.ByName("id"))
	if err != nil {
		h.writeError(w, "OpenReschedule", err)
		return
	}

	view, err := h.desk.OpenReschedule(r.Context(), id)
	if err != nil {
		h.writeError(w, "OpenReschedule", err)
		return
	}
	h.writeCreated(w, "OpenReschedule", view)
}

func (h *AppointmentHandler) GetDialog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.desk.Get(ps.ByName("dialog"))
	if err != nil {
		h.writeError(w, "GetDialog", err)
		return
	}
	h.writeSuccess(w, "GetDialog", view)
}

func (h *AppointmentHandler) EditDialog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req EditRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "EditDialog", err)
		return
	}
	if strings.TrimSpace(req.Field) == "" {
		h.writeError(w, "EditDialog", apperrors.InvalidInput("field is required"))
		return
	}

	view, err := h.desk.Apply(ps.ByName("dialog"), req.Field, req.Value)
	if err != nil {
		h.writeError(w, "EditDialog", err)
		return
	}
	h.writeSuccess(w, "EditDialog", view)
}

// SubmitDialog answers 200 for every completed attempt, including local and
// remote rejections; the view carries the field errors and banner.
func (h *AppointmentHandler) SubmitDialog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.desk.Submit(r.Context(), ps.ByName("dialog"))
	if err != nil {
		h.writeError(w, "SubmitDialog", err)
		return
	}
	h.writeSuccess(w, "SubmitDialog", view)
}

func (h *AppointmentHandler) CloseDialog(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.desk.Close(ps.ByName("dialog")); err != nil {
		h.writeError(w, "CloseDialog", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *AppointmentHandler) StartSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw := r.URL.Query().Get("date")
	date, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		h.writeError(w, "StartSlots", apperrors.InvalidInput("date must be YYYY-MM-DD, got: "+raw))
		return
	}

	h.writeSuccess(w, "StartSlots", SlotsResponse{
		Date:  raw,
		Slots: h.policy.StartSlots(date, h.now()),
	})
}

func (h *AppointmentHandler) EndSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw := r.URL.Query().Get("start")
	start, err := model.ParseLocal(raw)
	if err != nil {
		h.writeError(w, "EndSlots", apperrors.InvalidInput("start must be YYYY-MM-DDTHH:mm:ss, got: "+raw))
		return
	}

	h.writeSuccess(w, "EndSlots", SlotsResponse{
		Start: model.FormatLocal(start),
		Slots: h.policy.EndSlots(start),
	})
}

func (h *AppointmentHandler) RecentActivity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, err := httputil.ExtractLimit(r, activity.MaxRecent, activity.MaxRecent)
	if err != nil {
		h.writeError(w, "RecentActivity", err)
		return
	}

	events, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		h.log.Error("Failed to read activity", "error", err)
		h.writeError(w, "RecentActivity", apperrors.Internal("Failed to read activity", err))
		return
	}
	h.writeSuccess(w, "RecentActivity", events)
}

func (h *AppointmentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, toAppError(err)); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AppointmentHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *AppointmentHandler) writeCreated(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteCreated(w, data); err != nil {
		h.log.Error("failed to write created response", "handler", handler, "operation", "WriteCreated", "error", err)
	}
}
