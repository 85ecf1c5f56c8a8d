package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-client/internal/config"
	"github.com/spec-kit/ticket-client/internal/domain"
)

const snapshotKey = "ticket-client:snapshot"

// ErrNoSnapshot is returned when no cached snapshot exists.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Snapshot is the serialized last-known-good view state.
type Snapshot struct {
	Tickets   []domain.Ticket `json:"tickets"`
	Users     []domain.User   `json:"users"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// SnapshotCache keeps the last committed store state in Redis so a
// restart can render stale-but-usable data while the gateway is down.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSnapshotCache connects to Redis using the provided configuration.
// Returns nil when the cache is disabled; callers treat a nil cache as
// a no-op.
func NewSnapshotCache(cfg config.RedisConfig, logger *zap.Logger) *SnapshotCache {
	if !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &SnapshotCache{client: client, ttl: cfg.SnapshotTTL(), logger: logger}
}

// Save writes the snapshot best-effort; failures are logged, never
// propagated, since the cache is an optimization only.
func (c *SnapshotCache) Save(ctx context.Context, tickets []domain.Ticket, users []domain.User) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(Snapshot{Tickets: tickets, Users: users, FetchedAt: time.Now()})
	if err != nil {
		c.logger.Warn("marshal snapshot", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, snapshotKey, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache snapshot write failed", zap.Error(err))
	}
}

// Load reads the cached snapshot, returning ErrNoSnapshot when absent
// or expired.
func (c *SnapshotCache) Load(ctx context.Context) (*Snapshot, error) {
	if c == nil || c.client == nil {
		return nil, ErrNoSnapshot
	}
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Close closes the client.
func (c *SnapshotCache) Close() {
	if c != nil && c.client != nil {
		_ = c.client.Close()
	}
}
