package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	httpmiddleware "github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/http/middleware"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/identity"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/leads"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/wizard"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	WizardHandler  *wizard.Handler
	LeadsHandler   *leads.Handler
	CatalogHandler *catalog.Handler

	// IdentityParser resolves portal tokens into prefill identities. Nil
	// keeps every booking session anonymous.
	IdentityParser *identity.Parser
	// RateLimiter guards the public write endpoints when set.
	RateLimiter *httpmiddleware.RateLimiter

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Middleware)
		}
		if cfg.CatalogHandler != nil {
			api.Get("/categories/public/{id}", cfg.CatalogHandler.GetPublicTree)
		}
		if cfg.LeadsHandler != nil {
			api.Post("/tickets", cfg.LeadsHandler.CreateWebLead)
		}
		if cfg.WizardHandler != nil {
			api.Route("/booking/sessions", func(sessions chi.Router) {
				sessions.Use(httpmiddleware.Identity(cfg.IdentityParser, cfg.Logger))
				cfg.WizardHandler.Routes(sessions)
			})
		}
	})

	if cfg.AdminAuthSecret != "" && cfg.LeadsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/tickets", cfg.LeadsHandler.ListLeads)
			admin.Get("/tickets/{id}", cfg.LeadsHandler.GetLead)
			admin.Put("/tickets/{id}", cfg.LeadsHandler.UpdateLead)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
