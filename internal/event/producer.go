package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/productspec/internal/domain"
	pkgkafka "github.com/utafrali/productspec/pkg/kafka"
)

// Kafka topic constants for store change events.
const (
	TopicSnapshotSaved = "productspec.snapshot.saved"
	TopicStoreCleared  = "productspec.store.cleared"
)

// AggregateTypeSnapshot is the aggregate type of every store event. The
// aggregate id is the durable record key.
const AggregateTypeSnapshot = "snapshot"

// SourceProductSpec identifies events originating from this service.
const SourceProductSpec = "productspec"

// SnapshotSavedData is the payload for a snapshot.saved event.
type SnapshotSavedData struct {
	Key          string          `json:"key"`
	Snapshot     domain.Snapshot `json:"snapshot"`
	SpecCount    int             `json:"spec_count"`
	VariantCount int             `json:"variant_count"`
}

// StoreClearedData is the payload for a store.cleared event.
type StoreClearedData struct {
	Key string `json:"key"`
}

// Producer publishes store change events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishSnapshotSaved publishes a snapshot.saved event carrying the full record.
func (p *Producer) PublishSnapshotSaved(ctx context.Context, key string, snapshot domain.Snapshot) error {
	data := SnapshotSavedData{
		Key:          key,
		Snapshot:     snapshot,
		SpecCount:    len(snapshot.Specs),
		VariantCount: len(snapshot.Variants),
	}

	event, err := pkgkafka.NewEvent(TopicSnapshotSaved, SourceProductSpec, snapshotAggregate(key), data)
	if err != nil {
		return fmt.Errorf("create snapshot.saved event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSnapshotSaved, event); err != nil {
		return fmt.Errorf("publish snapshot.saved event: %w", err)
	}

	p.logger.DebugContext(ctx, "published snapshot.saved event",
		slog.String("key", key),
		slog.Int("variant_count", data.VariantCount),
	)

	return nil
}

// PublishStoreCleared publishes a store.cleared event.
func (p *Producer) PublishStoreCleared(ctx context.Context, key string) error {
	event, err := pkgkafka.NewEvent(TopicStoreCleared, SourceProductSpec, snapshotAggregate(key), StoreClearedData{Key: key})
	if err != nil {
		return fmt.Errorf("create store.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicStoreCleared, event); err != nil {
		return fmt.Errorf("publish store.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published store.cleared event",
		slog.String("key", key),
	)

	return nil
}

func snapshotAggregate(key string) pkgkafka.Aggregate {
	return pkgkafka.Aggregate{Type: AggregateTypeSnapshot, ID: key}
}

// Nop discards every event. It stands in for the producer when the change
// feed is disabled.
type Nop struct{}

// PublishSnapshotSaved does nothing.
func (Nop) PublishSnapshotSaved(context.Context, string, domain.Snapshot) error { return nil }

// PublishStoreCleared does nothing.
func (Nop) PublishStoreCleared(context.Context, string) error { return nil }
