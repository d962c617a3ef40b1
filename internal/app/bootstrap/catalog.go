package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/cmd/mainconfig"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/catalog"
	appconfig "github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/config"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/httpclient"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// BuildCatalogSource selects the category source named by CATALOG_SOURCE
// and wraps it in the Redis cache when a TTL and client are available.
func BuildCatalogSource(ctx context.Context, cfg *appconfig.Config, pool *pgxpool.Pool, redisClient *redis.Client, logger *logging.Logger) (catalog.Source, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var source catalog.Source
	switch cfg.CatalogSource {
	case "postgres", "":
		if pool == nil {
			return nil, errors.New("bootstrap: catalog source postgres requires DATABASE_URL")
		}
		source = catalog.NewPostgresSource(pool)
	case "http":
		if cfg.CatalogBaseURL == "" {
			return nil, errors.New("bootstrap: catalog source http requires CATALOG_BASE_URL")
		}
		client := httpclient.New(httpclient.Options{
			BaseURL:  cfg.CatalogBaseURL,
			Token:    cfg.CatalogAPIToken,
			Timeout:  cfg.HTTPClientTimeout,
			RetryMax: cfg.HTTPRetryMax,
			Logger:   logger.Component("catalog-client"),
		})
		source = catalog.NewHTTPSource(client, "")
	case "file":
		mem, err := loadSeed(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load catalog seed: %w", err)
		}
		// The seed is already in memory; caching it would only add a hop.
		return mem, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown catalog source %q", cfg.CatalogSource)
	}

	if cfg.CatalogCacheTTL > 0 && redisClient != nil {
		logger.Info("catalog cache enabled", "ttl", cfg.CatalogCacheTTL)
		return catalog.NewCachedSource(source, redisClient, cfg.CatalogCacheTTL, logger), nil
	}
	return source, nil
}

// loadSeed reads CATALOG_SEED_FILE from disk or from an s3:// location.
func loadSeed(ctx context.Context, cfg *appconfig.Config) (*catalog.MemorySource, error) {
	bucket, key, ok := catalog.ParseS3URI(cfg.CatalogSeedFile)
	if !ok {
		return catalog.LoadFile(cfg.CatalogSeedFile)
	}
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// LocalStack serves buckets on the path, not as subdomains.
		o.UsePathStyle = cfg.AWSEndpointOverride != ""
	})
	return catalog.LoadS3(ctx, client, bucket, key)
}
