package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/config"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

const seedJSON = `[{"id": 1, "name": "Renovation", "children": [{"id": 2, "name": "Bathroom"}]}]`

func testConfig(t *testing.T) *appconfig.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))
	return &appconfig.Config{
		Timezone:        "Europe/Berlin",
		SessionStore:    "memory",
		SessionTTL:      time.Hour,
		CatalogSource:   "file",
		CatalogSeedFile: path,
		SinkMode:        "local",
		EmailProvider:   "stub",
		RateLimitRPS:    100,
		RateLimitBurst:  100,
	}
}

func TestSetupMetricsExposesRuntimeCollectors(t *testing.T) {
	_, handler := setupMetrics()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestBuildAppServesBookingFlow(t *testing.T) {
	handler, cleanup, err := buildApp(context.Background(), testConfig(t), logging.New("error"))
	require.NoError(t, err)
	defer cleanup()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/booking/sessions",
		strings.NewReader(`{"category_id": "1"}`)))
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), "deiw2_booking_sessions_total")
}

func TestBuildAppRedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.SessionStore = "redis"
	cfg.RedisAddr = mr.Addr()

	handler, cleanup, err := buildApp(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)
	defer cleanup()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/booking/sessions",
		strings.NewReader(`{"category_id": "1"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEmpty(t, mr.Keys())
}

func TestBuildAppRejectsUnreachableRedisStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionStore = "redis"
	cfg.RedisAddr = ""

	_, _, err := buildApp(context.Background(), cfg, logging.New("error"))
	assert.Error(t, err)
}
