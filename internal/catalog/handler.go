package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// Handler exposes category trees to host pages.
type Handler struct {
	source Source
	logger *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(source Source, logger *logging.Logger) *Handler {
	if source == nil {
		panic("catalog: source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{source: source, logger: logger.Component("catalog")}
}

// GetPublicTree handles GET /api/v1/categories/public/{id}.
func (h *Handler) GetPublicTree(w http.ResponseWriter, r *http.Request) {
	id := ID(strings.TrimSpace(chi.URLParam(r, "id")))
	if id == "" {
		http.Error(w, "category id required", http.StatusBadRequest)
		return
	}
	tree, err := h.source.Tree(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, ErrCategoryNotFound):
		http.Error(w, "category not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrSourceUnavailable):
		h.logger.Warn("catalog source unavailable", "category_id", id, "error", err)
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
		return
	default:
		h.logger.Error("failed to load category tree", "category_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(tree)
}
