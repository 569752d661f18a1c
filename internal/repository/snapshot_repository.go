package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

// SnapshotRepository mirrors encoded backups into Redis so the latest one survives a
// process restart. A nil client turns every call into a no-op / miss.
type SnapshotRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSnapshotRepository constructs a snapshot repository.
func NewSnapshotRepository(client *redis.Client, logger *zap.Logger) *SnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotRepository{client: client, logger: logger}
}

// Save stores the raw payload under key with the given TTL (0 keeps it forever).
func (r *SnapshotRepository) Save(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.logger.Debug("snapshot mirrored", zap.String("key", key), zap.Int("bytes", len(payload)))
	return nil
}

// Load returns the payload stored under key or appErrors.ErrCacheMiss.
func (r *SnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Delete removes the payload stored under key.
func (r *SnapshotRepository) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Healthy reports whether Redis answers a ping.
func (r *SnapshotRepository) Healthy(ctx context.Context) bool {
	if r.client == nil {
		return false
	}
	return r.client.Ping(ctx).Err() == nil
}

// Close releases the underlying Redis connection if present.
func (r *SnapshotRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
