package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/utafrali/productspec/internal/domain"
	"github.com/utafrali/productspec/internal/repository"
	apperrors "github.com/utafrali/productspec/pkg/errors"
)

// SnapshotRepository implements repository.SnapshotRepository in process
// memory. The snapshot is kept encoded so reads go through the same JSON
// boundary as the Redis backend. State is lost on exit.
type SnapshotRepository struct {
	mu   sync.RWMutex
	key  string
	data []byte
}

// NewSnapshotRepository creates an empty in-memory repository.
func NewSnapshotRepository(key string) *SnapshotRepository {
	return &SnapshotRepository{key: key}
}

// Key returns the record key.
func (r *SnapshotRepository) Key() string {
	return r.key
}

// Load decodes the stored snapshot.
func (r *SnapshotRepository) Load(_ context.Context) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.data == nil {
		return nil, apperrors.NotFound("snapshot", r.key)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(r.data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w: %w", repository.ErrCorrupt, err)
	}
	return &snapshot, nil
}

// Save encodes and stores snapshot.
func (r *SnapshotRepository) Save(_ context.Context, snapshot domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	r.mu.Lock()
	r.data = data
	r.mu.Unlock()
	return nil
}

// Delete drops the stored snapshot.
func (r *SnapshotRepository) Delete(_ context.Context) error {
	r.mu.Lock()
	r.data = nil
	r.mu.Unlock()
	return nil
}

// Exists reports whether a record is stored.
func (r *SnapshotRepository) Exists() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data != nil
}

// Ping always succeeds.
func (r *SnapshotRepository) Ping(_ context.Context) error {
	return nil
}
