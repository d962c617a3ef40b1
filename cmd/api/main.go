package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/api/router"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/app/bootstrap"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	appconfig "github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/config"
	httpmiddleware "github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/http/middleware"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/identity"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/leads"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/modalconfig"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/observability/metrics"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/taxonomy"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/wizard"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	logger.Info("starting deiw2 booking API",
		"env", cfg.Env,
		"port", cfg.Port,
		"catalog_source", cfg.CatalogSource,
		"session_store", cfg.SessionStore,
		"sink_mode", cfg.SinkMode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := buildApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds a private registry with runtime collectors and the
// handler that serves it.
func setupMetrics() (*prometheus.Registry, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// buildApp wires every dependency named in cfg and returns the root handler
// plus a cleanup releasing pools and background workers.
func buildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	pool := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		closers = append(closers, pool.Close)
	}
	var redisClient *redis.Client
	if cfg.SessionStore == "redis" || cfg.CatalogCacheTTL > 0 {
		redisClient = bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	}
	if redisClient != nil {
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	reg, metricsHandler := setupMetrics()
	bookingMetrics := metrics.NewBookingMetrics(reg)
	leadMetrics := metrics.NewLeadMetrics(reg)

	source, err := bootstrap.BuildCatalogSource(ctx, cfg, pool, redisClient, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	notifier := bootstrap.BuildNotifier(ctx, cfg, logger)
	leadSvc, leadRepo, err := bootstrap.BuildLeads(cfg, pool, notifier, leadMetrics, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var store wizard.Store
	switch cfg.SessionStore {
	case "redis":
		if redisClient == nil {
			cleanup()
			return nil, nil, errors.New("session store redis requires a reachable REDIS_ADDR")
		}
		store = wizard.NewRedisStore(redisClient, cfg.SessionTTL)
	default:
		store = wizard.NewMemoryStore(cfg.SessionTTL)
	}

	wizardSvc := wizard.NewService(source, store, leadSvc, wizard.Config{
		Navigator: taxonomy.NewNavigator(modalconfig.NewInterpreter(logger)),
		Location:  cfg.Location(),
	}, bookingMetrics, logger)

	var limiter *httpmiddleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		closers = append(closers, limiter.Stop)
	}

	handler := router.New(&router.Config{
		Logger:             logger,
		WizardHandler:      wizard.NewHandler(wizardSvc, logger),
		LeadsHandler:       leads.NewHandler(leadSvc, leadRepo, logger),
		CatalogHandler:     catalog.NewHandler(source, logger),
		IdentityParser:     identity.NewParser(cfg.IdentityJWTSecret),
		RateLimiter:        limiter,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	return handler, cleanup, nil
}
