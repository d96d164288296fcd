package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "interview:session:"

// redisStore implements Store on Redis with WATCH/MULTI/EXEC optimistic
// locking, for multi-instance deployments. Keys carry the configured TTL,
// refreshed on every read and write.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisStore(client *redis.Client, ttl time.Duration) *redisStore {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) key(id string) string {
	return sessionKeyPrefix + id
}

func (s *redisStore) Create(ctx context.Context, data *Session) error {
	now := time.Now()
	if data.StartedAt.IsZero() {
		data.StartedAt = now
	}
	data.UpdatedAt = now
	data.Version = 1

	val, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(data.ID), val, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var data Session
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, err
	}

	// Refresh TTL on read; a failure here is not fatal.
	_ = s.client.Expire(ctx, s.key(id), s.ttl).Err()

	return &data, nil
}

func (s *redisStore) Update(ctx context.Context, data *Session) error {
	key := s.key(data.ID)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored Session
		if err := json.Unmarshal([]byte(val), &stored); err != nil {
			return err
		}
		if stored.Version != data.Version {
			return ErrVersionConflict
		}

		data.Version++
		data.UpdatedAt = time.Now()

		newVal, err := json.Marshal(data)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, s.ttl)
			return nil
		})
		return err
	}, key)
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
