package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisUpdateAttempts = 5

// RedisStore keeps sessions in Redis with a sliding TTL. Updates use an
// optimistic WATCH/MULTI transaction on the session key.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if redisClient == nil {
		panic("wizard: redis client required")
	}
	return &RedisStore{redis: redisClient, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return "booking:session:" + id
}

func (s *RedisStore) Create(ctx context.Context, st *State) error {
	data, err := encodeState(st)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(st.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("wizard: save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("wizard: load session: %w", err)
	}
	return decodeState(data)
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*State) error) (*State, error) {
	key := s.key(id)
	var (
		result *State
		fnErr  error
	)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("wizard: load session: %w", err)
		}
		st, err := decodeState(data)
		if err != nil {
			return err
		}
		result = st
		if fnErr = fn(st); fnErr != nil {
			return nil
		}
		encoded, err := encodeState(st)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < redisUpdateAttempts; attempt++ {
		fnErr = nil
		err := s.redis.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, fnErr
	}
	return nil, fmt.Errorf("wizard: session %s: too much contention", id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("wizard: delete session: %w", err)
	}
	return nil
}
