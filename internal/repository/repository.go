package repository

import (
	"context"
	"errors"

	"github.com/utafrali/productspec/internal/domain"
)

// ErrCorrupt marks a record that exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt snapshot record")

// SnapshotRepository persists the durable record: one snapshot under one
// fixed key.
type SnapshotRepository interface {
	// Load returns the stored snapshot, or an error wrapping
	// apperrors.ErrNotFound when no record exists and ErrCorrupt when the
	// record cannot be decoded.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save overwrites the record with snapshot.
	Save(ctx context.Context, snapshot domain.Snapshot) error

	// Delete removes the record key. Deleting a missing record is not an error.
	Delete(ctx context.Context) error

	// Key returns the record key, for logs and events.
	Key() string

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}
