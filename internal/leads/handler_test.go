package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

func newTestHandler(t *testing.T) (*Handler, *InMemoryRepository, *recordingNotifier) {
	t.Helper()
	repo := NewInMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil, logging.Default())
	return NewHandler(svc, repo, logging.Default()), repo, notifier
}

func routed(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/tickets", h.CreateWebLead)
	r.Get("/admin/tickets", h.ListLeads)
	r.Get("/admin/tickets/{id}", h.GetLead)
	r.Put("/admin/tickets/{id}", h.UpdateLead)
	return r
}

func TestCreateWebLead_Success(t *testing.T) {
	handler, _, notifier := newTestHandler(t)

	body, _ := json.Marshal(CreateLeadRequest{
		Subject:     "Question about painting",
		Message:     "<b>Hello</b> there",
		SenderName:  "Jane Doe",
		SenderEmail: "jane@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	w := httptest.NewRecorder()

	routed(handler).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var lead Lead
	require.NoError(t, json.NewDecoder(w.Body).Decode(&lead))
	assert.Equal(t, "Question about painting", lead.Subject)
	assert.Equal(t, "Hello there", lead.Message)
	assert.Equal(t, SourceHomeForm, lead.Source)
	assert.Equal(t, DefaultCategory, lead.Category)
	assert.Equal(t, StatusNew, lead.Status)
	assert.Equal(t, PriorityMedium, lead.Priority)
	assert.Len(t, notifier.leads, 1)
}

func TestCreateWebLead_MissingSubject(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	body, _ := json.Marshal(CreateLeadRequest{Message: "no subject"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	w := httptest.NewRecorder()

	routed(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateWebLead_InvalidJSON(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()

	routed(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLeads_FilterAndPaging(t *testing.T) {
	handler, repo, _ := newTestHandler(t)
	ctx := context.Background()
	for _, source := range []string{SourceHomeForm, SourceServiceModal, SourceServiceModal} {
		_, err := repo.Create(ctx, &CreateLeadRequest{Subject: "s", Source: source})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/tickets?source=service_modal&limit=1", nil)
	w := httptest.NewRecorder()
	routed(handler).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListLeadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 1, resp.Limit)
	assert.Equal(t, SourceServiceModal, resp.Leads[0].Source)
}

func TestListLeads_IgnoresBadLimit(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/tickets?limit=500&offset=-2", nil)
	w := httptest.NewRecorder()
	routed(handler).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ListLeadsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 50, resp.Limit)
	assert.Equal(t, 0, resp.Offset)
	assert.Empty(t, resp.Leads)
}

func TestGetAndUpdateLead(t *testing.T) {
	handler, repo, _ := newTestHandler(t)
	lead, err := repo.Create(context.Background(), &CreateLeadRequest{Subject: "s", Source: SourceHomeForm})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	routed(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/tickets/"+lead.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := []byte(`{"status":"answered","response":"We will call you <script>x</script>"}`)
	w = httptest.NewRecorder()
	routed(handler).ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/tickets/"+lead.ID, bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var updated Lead
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, StatusAnswered, updated.Status)
	assert.Equal(t, PriorityMedium, updated.Priority)
	assert.Equal(t, "We will call you", updated.Response)
}

func TestUpdateLead_Errors(t *testing.T) {
	handler, repo, _ := newTestHandler(t)
	lead, err := repo.Create(context.Background(), &CreateLeadRequest{Subject: "s"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	routed(handler).ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/tickets/"+lead.ID,
		bytes.NewReader([]byte(`{"status":"archived"}`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	routed(handler).ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/tickets/missing",
		bytes.NewReader([]byte(`{"status":"closed"}`))))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEndpointsWithoutRepository(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)
	handler := NewHandler(svc, nil, nil)

	w := httptest.NewRecorder()
	routed(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/tickets", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
