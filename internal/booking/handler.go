package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/luxe-salon/internal/catalog"
	"github.com/wolfman30/luxe-salon/internal/confirmation"
	"github.com/wolfman30/luxe-salon/internal/formatting"
	"github.com/wolfman30/luxe-salon/internal/schedule"
	"github.com/wolfman30/luxe-salon/internal/validation"
	"github.com/wolfman30/luxe-salon/internal/wizard"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

const maxBodyBytes = 64 << 10

// Handler exposes the booking wizard over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("booking: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the session endpoints under the caller's prefix.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Abandon)
		r.Put("/service", h.SelectService)
		r.Put("/staff", h.SelectStaff)
		r.Put("/schedule", h.SelectSchedule)
		r.Put("/client", h.SubmitClientInfo)
		r.Post("/payment", h.SubmitPayment)
		r.Post("/advance", h.Advance)
		r.Post("/retreat", h.Retreat)
		r.Get("/quote", h.Quote)
		r.Get("/confirmation.txt", h.Export)
	})
}

type errorResponse struct {
	Error  string                   `json:"error"`
	Fields []*validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decode(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeError maps domain errors onto status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	fields := validation.Fields(err)
	var scheduleField string
	switch {
	case errors.Is(err, schedule.ErrNoDate), errors.Is(err, schedule.ErrPastDate),
		errors.Is(err, schedule.ErrClosedDay), errors.Is(err, schedule.ErrOutsideWindow):
		scheduleField = "date"
	case errors.Is(err, schedule.ErrUnknownSlot), errors.Is(err, schedule.ErrSlotBooked):
		scheduleField = "time"
	}

	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, catalog.ErrServiceNotFound), errors.Is(err, catalog.ErrStaffNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case scheduleField != "":
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  err.Error(),
			Fields: []*validation.FieldError{{Field: scheduleField, Reason: err.Error()}},
		})
	case errors.Is(err, wizard.ErrStepIncomplete):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Fields: fields})
	case fields != nil:
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: fields})
	case errors.Is(err, wizard.ErrWrongStep), errors.Is(err, wizard.ErrTerminal),
		errors.Is(err, wizard.ErrCannotRetreat), errors.Is(err, ErrPaymentInProgress),
		errors.Is(err, ErrPaymentRequired), errors.Is(err, wizard.ErrConfirmRequired),
		errors.Is(err, confirmation.ErrNotConfirmed):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("booking request failed", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, session *Session, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, NewSessionView(session))
}

type createRequest struct {
	ServiceID int `json:"serviceId"`
}

// Create handles POST /bookings. A service id may come from the body or the
// service_id query parameter.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}
	if raw := r.URL.Query().Get("service_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "service_id must be a number"})
			return
		}
		req.ServiceID = id
	}
	session, err := h.svc.Start(r.Context(), req.ServiceID)
	h.respond(w, r, http.StatusCreated, session, err)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Get(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Abandon(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type selectServiceRequest struct {
	ServiceID int `json:"serviceId"`
}

func (h *Handler) SelectService(w http.ResponseWriter, r *http.Request) {
	var req selectServiceRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	session, err := h.svc.SelectService(r.Context(), chi.URLParam(r, "sessionID"), req.ServiceID)
	h.respond(w, r, http.StatusOK, session, err)
}

type selectStaffRequest struct {
	StaffID int `json:"staffId"`
}

func (h *Handler) SelectStaff(w http.ResponseWriter, r *http.Request) {
	var req selectStaffRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	session, err := h.svc.SelectStaff(r.Context(), chi.URLParam(r, "sessionID"), req.StaffID)
	h.respond(w, r, http.StatusOK, session, err)
}

type selectScheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (h *Handler) SelectSchedule(w http.ResponseWriter, r *http.Request) {
	var req selectScheduleRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	date, err := formatting.ParseISODate(req.Date, h.svc.Rules().Location)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Fields: []*validation.FieldError{{Field: "date", Reason: "Date must be in YYYY-MM-DD format"}},
		})
		return
	}
	session, err := h.svc.SelectSchedule(r.Context(), chi.URLParam(r, "sessionID"), date, strings.TrimSpace(req.Time))
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handler) SubmitClientInfo(w http.ResponseWriter, r *http.Request) {
	var info wizard.ClientInfo
	if err := decode(r, &info); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	session, err := h.svc.SubmitClientInfo(r.Context(), chi.URLParam(r, "sessionID"), info)
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var p wizard.Payment
	if err := decode(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	session, err := h.svc.SubmitPayment(r.Context(), chi.URLParam(r, "sessionID"), p)
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Advance(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	session, err := h.svc.Retreat(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, http.StatusOK, session, err)
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.svc.Quote(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewQuoteView(quote))
}

// Export serves the confirmation as a text attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	doc, filename, err := h.svc.Export(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", confirmation.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// Services handles GET /catalog/services?category=.
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	services, err := h.svc.Catalog().Services(r.URL.Query().Get("category"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// Staff handles GET /catalog/staff.
func (h *Handler) Staff(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"staff": h.svc.Catalog().StaffMembers()})
}

// Availability handles GET /availability?date=YYYY-MM-DD. Without a date it
// lists the selectable days of the booking window.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	rules := h.svc.Rules()
	now := h.svc.Now()
	raw := r.URL.Query().Get("date")
	if raw == "" {
		dates := rules.SelectableDates(now)
		out := make([]string, 0, len(dates))
		for _, d := range dates {
			out = append(out, d.Format(formatting.ISODateLayout))
		}
		writeJSON(w, http.StatusOK, map[string]any{"dates": out})
		return
	}
	date, err := formatting.ParseISODate(raw, rules.Location)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "date must be in YYYY-MM-DD format"})
		return
	}
	writeJSON(w, http.StatusOK, rules.Availability(date, now))
}
