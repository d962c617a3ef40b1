package wizard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/forms"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/taxonomy"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// Handler exposes booking sessions over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the session endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.OpenSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.CloseSession)
		r.Post("/options/{index}", h.SelectOption)
		r.Post("/breadcrumbs/{index}", h.SelectBreadcrumb)
		r.Post("/back", h.Back)
		r.Post("/calendar/next", h.NextMonth)
		r.Post("/calendar/prev", h.PrevMonth)
		r.Post("/date", h.PickDate)
		r.Post("/continue", h.Continue)
		r.Patch("/fields", h.SetFields)
		r.Post("/submit", h.Submit)
	})
}

type openRequest struct {
	CategoryID catalog.ID `json:"category_id"`
}

type dateRequest struct {
	Date string `json:"date"`
}

type fieldsRequest struct {
	Values map[string]string `json:"values"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	View   *View             `json:"view,omitempty"`
}

// OpenSession handles POST /api/v1/booking/sessions
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if strings.TrimSpace(string(req.CategoryID)) == "" {
		writeError(w, http.StatusBadRequest, "category_id is required", nil)
		return
	}

	wiz, err := h.svc.Open(r.Context(), req.CategoryID)
	if err != nil {
		h.fail(w, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, NewView(wiz))
}

// GetSession handles GET /api/v1/booking/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.svc.Get(r.Context(), sessionID(r))
	h.respond(w, wiz, err)
}

// CloseSession handles DELETE /api/v1/booking/sessions/{sessionID}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Close(r.Context(), sessionID(r)); err != nil {
		h.fail(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectOption handles POST …/options/{index}
func (h *Handler) SelectOption(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	wiz, err := h.svc.Select(r.Context(), sessionID(r), index)
	h.respond(w, wiz, err)
}

// SelectBreadcrumb handles POST …/breadcrumbs/{index}
func (h *Handler) SelectBreadcrumb(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	wiz, err := h.svc.NavigateToBreadcrumb(r.Context(), sessionID(r), index)
	h.respond(w, wiz, err)
}

// Back handles POST …/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	wiz, _, err := h.svc.Back(r.Context(), sessionID(r))
	h.respond(w, wiz, err)
}

// NextMonth handles POST …/calendar/next
func (h *Handler) NextMonth(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.svc.NextMonth(r.Context(), sessionID(r))
	h.respond(w, wiz, err)
}

// PrevMonth handles POST …/calendar/prev
func (h *Handler) PrevMonth(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.svc.PrevMonth(r.Context(), sessionID(r))
	h.respond(w, wiz, err)
}

// PickDate handles POST …/date
func (h *Handler) PickDate(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	day, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		return
	}
	wiz, err := h.svc.PickDate(r.Context(), sessionID(r), day)
	h.respond(w, wiz, err)
}

// Continue handles POST …/continue
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.svc.Continue(r.Context(), sessionID(r))
	h.respond(w, wiz, err)
}

// SetFields handles PATCH …/fields
func (h *Handler) SetFields(w http.ResponseWriter, r *http.Request) {
	var req fieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	wiz, err := h.svc.SetValues(r.Context(), sessionID(r), req.Values)
	h.respond(w, wiz, err)
}

// Submit handles POST …/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	wiz, err := h.svc.Submit(r.Context(), sessionID(r))
	h.respond(w, wiz, err)
}

func (h *Handler) respond(w http.ResponseWriter, wiz *Wizard, err error) {
	if err != nil {
		h.fail(w, err, wiz)
		return
	}
	writeJSON(w, http.StatusOK, NewView(wiz))
}

// fail maps service errors to statuses. Validation and sink failures carry
// the current view so the page can redraw without a second request.
func (h *Handler) fail(w http.ResponseWriter, err error, wiz *Wizard) {
	var view *View
	if wiz != nil {
		v := NewView(wiz)
		view = &v
	}

	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "form incomplete", Fields: verr.Fields, View: view})
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, catalog.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, err.Error(), view)
	case errors.Is(err, ErrMissingRoot):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), view)
	case errors.Is(err, taxonomy.ErrOptionOutOfRange), errors.Is(err, taxonomy.ErrBreadcrumbOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), view)
	case errors.Is(err, ErrWrongStep), errors.Is(err, ErrNoDate), errors.Is(err, ErrSubmitInFlight), errors.Is(err, ErrClosed):
		writeError(w, http.StatusConflict, err.Error(), view)
	case errors.Is(err, ErrSubmitFailed):
		writeError(w, http.StatusBadGateway, submitFailedMessage, view)
	case errors.Is(err, catalog.ErrSourceUnavailable):
		h.logger.Error("catalog unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "catalog unavailable", view)
	default:
		h.logger.Error("booking request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", view)
	}
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer", nil)
		return 0, false
	}
	return index, true
}

func writeError(w http.ResponseWriter, status int, msg string, view *View) {
	writeJSON(w, status, errorResponse{Error: msg, View: view})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
