package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/forms"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// Handler handles HTTP requests for leads
type Handler struct {
	svc       *Service
	repo      Repository
	sanitizer *forms.Sanitizer
	logger    *logging.Logger
}

// NewHandler creates a new leads handler. repo may be nil when leads are
// forwarded to the portal; the admin endpoints then answer 404.
func NewHandler(svc *Service, repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		svc:       svc,
		repo:      repo,
		sanitizer: forms.NewSanitizer(),
		logger:    logger,
	}
}

// CreateWebLead handles POST /api/v1/tickets requests
func (h *Handler) CreateWebLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Subject = h.sanitizer.Value(req.Subject)
	req.Message = h.sanitizer.Value(req.Message)
	req.SenderName = h.sanitizer.Value(req.SenderName)
	req.SenderEmail = h.sanitizer.Value(req.SenderEmail)
	req.SenderPhone = h.sanitizer.Value(req.SenderPhone)
	req.Category = h.sanitizer.Value(req.Category)

	lead, err := h.svc.Submit(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidSubject) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create lead", "error", err)
		http.Error(w, "failed to create lead", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusCreated, lead)
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListLeads handles GET /admin/tickets requests
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.NotFound(w, r)
		return
	}

	filter := ListLeadsFilter{
		Limit:  50,
		Offset: 0,
		Status: r.URL.Query().Get("status"),
		Source: r.URL.Query().Get("source"),
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	leads, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{
		Leads:  leads,
		Count:  len(leads),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// GetLead handles GET /admin/tickets/{id}
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.NotFound(w, r)
		return
	}
	lead, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// UpdateLead handles PUT /admin/tickets/{id}
func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.NotFound(w, r)
		return
	}

	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Response != nil {
		cleaned := h.sanitizer.Value(*req.Response)
		req.Response = &cleaned
	}

	lead, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeRepoError(w, err)
		return
	}
	h.logger.Info("lead updated", "id", lead.ID, "status", lead.Status)
	writeJSON(w, http.StatusOK, lead)
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPriority):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("lead repository failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
