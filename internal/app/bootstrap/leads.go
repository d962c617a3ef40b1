package bootstrap

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/config"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/httpclient"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/leads"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/observability/metrics"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// BuildLeads wires the lead service and, in local mode, the repository
// backing the admin endpoints. Forwarding mode returns a nil repository.
func BuildLeads(cfg *appconfig.Config, pool *pgxpool.Pool, notifier leads.Notifier, m *metrics.LeadMetrics, logger *logging.Logger) (*leads.Service, leads.Repository, error) {
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.SinkMode {
	case "http":
		if cfg.SinkBaseURL == "" {
			return nil, nil, errors.New("bootstrap: sink mode http requires SINK_BASE_URL")
		}
		// One attempt per submit: a retried POST could file the lead twice.
		client := httpclient.New(httpclient.Options{
			BaseURL:  cfg.SinkBaseURL,
			Token:    cfg.SinkAPIToken,
			Timeout:  cfg.HTTPClientTimeout,
			RetryMax: 0,
			Logger:   logger.Component("sink-client"),
		})
		sink := leads.NewHTTPSink(client, "")
		return leads.NewService(sink, notifier, m, logger), nil, nil
	case "local", "":
		var repo leads.Repository
		if pool != nil {
			repo = leads.NewPostgresRepository(pool)
		} else {
			logger.Warn("no database configured, leads are kept in memory")
			repo = leads.NewInMemoryRepository()
		}
		return leads.NewService(repo, notifier, m, logger), repo, nil
	default:
		return nil, nil, errors.New("bootstrap: unknown sink mode " + cfg.SinkMode)
	}
}
