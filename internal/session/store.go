package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store defines the interface for session storage operations.
type Store interface {
	// Create stores a new session with Version set to 1.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Session, error)

	// Update persists an existing session with optimistic locking: the stored
	// Version must match, and on success Version is incremented and UpdatedAt
	// refreshed. Returns ErrVersionConflict on a lost race, ErrNotFound when
	// the session no longer exists.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases store resources.
	Close() error
}

// StoreOption configures a store built by NewStore.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	ttl         time.Duration
	sweep       time.Duration
}

// WithRedisClient sets the Redis client for the redis driver.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithTTL bounds how long inactive sessions are retained.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// WithSweepInterval sets how often the memory driver reclaims stale sessions.
func WithSweepInterval(d time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.sweep = d
	}
}

// NewStore builds a Store for the given driver name ("memory" or "redis").
func NewStore(driver string, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{
		ttl:   2 * time.Hour,
		sweep: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case "memory":
		return newMemoryStore(cfg.ttl, cfg.sweep), nil
	case "redis":
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return newRedisStore(cfg.redisClient, cfg.ttl), nil
	default:
		return nil, ErrInvalidConfig
	}
}
