package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// CachedSource keeps fetched trees in Redis for ttl. Cache failures degrade
// to the wrapped source.
type CachedSource struct {
	next   Source
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedSource decorates next with a Redis cache.
func NewCachedSource(next Source, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedSource {
	if next == nil {
		panic("catalog: source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedSource{next: next, redis: redisClient, ttl: ttl, logger: logger}
}

func (s *CachedSource) key(id ID) string {
	return "catalog:tree:" + string(id)
}

// Tree serves from cache when possible.
func (s *CachedSource) Tree(ctx context.Context, id ID) (*Category, error) {
	if s.redis != nil {
		data, err := s.redis.Get(ctx, s.key(id)).Bytes()
		switch {
		case err == nil:
			var cached Category
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("catalog: dropping undecodable cache entry", "category_id", id)
		case !errors.Is(err, redis.Nil):
			s.logger.Warn("catalog: cache read failed", "category_id", id, "error", err)
		}
	}

	tree, err := s.next.Tree(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(tree); err == nil {
			if err := s.redis.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
				s.logger.Warn("catalog: cache write failed", "category_id", id, "error", err)
			}
		}
	}
	return tree, nil
}

// Invalidate drops the cached tree for id.
func (s *CachedSource) Invalidate(ctx context.Context, id ID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, s.key(id)).Err()
}
