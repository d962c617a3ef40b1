package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	httpmiddleware "github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/http/middleware"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/identity"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/leads"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/observability/metrics"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/wizard"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

const adminSecret = "admin-secret"

func newTestRouter(t *testing.T) (http.Handler, *leads.InMemoryRepository) {
	t.Helper()

	logger := logging.Default()
	reg := prometheus.NewRegistry()
	source := catalog.NewMemorySource([]*catalog.Category{{
		ID:   "1",
		Name: "Renovation",
		Children: []*catalog.Category{
			{ID: "2", Name: "Bathroom"},
			{ID: "3", Name: "Kitchen"},
		},
	}})

	repo := leads.NewInMemoryRepository()
	leadSvc := leads.NewService(repo, nil, metrics.NewLeadMetrics(reg), logger)
	store := wizard.NewMemoryStore(time.Hour)
	wizSvc := wizard.NewService(source, store, leadSvc, wizard.Config{}, metrics.NewBookingMetrics(reg), logger)

	return New(&Config{
		Logger:          logger,
		WizardHandler:   wizard.NewHandler(wizSvc, logger),
		LeadsHandler:    leads.NewHandler(leadSvc, repo, logger),
		CatalogHandler:  catalog.NewHandler(source, logger),
		IdentityParser:  identity.NewParser("portal-secret"),
		AdminAuthSecret: adminSecret,
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}), repo
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := httpmiddleware.AdminClaims{
		Role: httpmiddleware.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "staff-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(adminSecret))
	require.NoError(t, err)
	return signed
}

func TestRouterHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouterTicketsEndpoint(t *testing.T) {
	router, repo := newTestRouter(t)

	body, err := json.Marshal(leads.CreateLeadRequest{
		Subject:     "Quote for a roof",
		SenderName:  "Router Test",
		SenderEmail: "router@example.com",
	})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var created leads.Lead
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, "router@example.com", created.SenderEmail)
	assert.Equal(t, leads.SourceHomeForm, created.Source)

	stored, err := repo.GetByID(req.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quote for a roof", stored.Subject)
}

func TestRouterBookingSessions(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/booking/sessions",
		strings.NewReader(`{"category_id": 1}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var view wizard.View
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
	require.NotEmpty(t, view.SessionID)
	assert.Equal(t, "SERVICE", view.StepName)
	assert.Len(t, view.Options, 2)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost,
		"/api/v1/booking/sessions/"+view.SessionID+"/options/0", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
	assert.Equal(t, "DATE", view.StepName)
}

func TestRouterPublicCategories(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/categories/public/1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Kitchen")
}

func TestRouterAdminTicketsRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/tickets", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/tickets", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/booking/sessions",
		strings.NewReader(`{"category_id": "1"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "deiw2_booking_sessions_total")
}

func TestRouterAdminRoutesAbsentWithoutSecret(t *testing.T) {
	r := New(&Config{LeadsHandler: leads.NewHandler(
		leads.NewService(leads.NewInMemoryRepository(), nil, nil, nil), nil, nil)})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/tickets", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
