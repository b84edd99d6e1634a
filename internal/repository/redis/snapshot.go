package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/productspec/internal/domain"
	"github.com/utafrali/productspec/internal/repository"
	apperrors "github.com/utafrali/productspec/pkg/errors"
)

// SnapshotRepository implements repository.SnapshotRepository on a single
// Redis string key holding the JSON snapshot. The key never expires.
type SnapshotRepository struct {
	client *redis.Client
	key    string
}

// NewSnapshotRepository creates a Redis-backed repository for key.
func NewSnapshotRepository(client *redis.Client, key string) *SnapshotRepository {
	return &SnapshotRepository{client: client, key: key}
}

// Key returns the Redis key of the record.
func (r *SnapshotRepository) Key() string {
	return r.key
}

// Load reads and decodes the record.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("snapshot", r.key)
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w: %w", repository.ErrCorrupt, err)
	}

	return &snapshot, nil
}

// Save encodes and writes the record without expiry.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}

	return nil
}

// Delete removes the key.
func (r *SnapshotRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *SnapshotRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
