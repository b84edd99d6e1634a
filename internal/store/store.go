package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/productspec/internal/domain"
	"github.com/utafrali/productspec/internal/metrics"
	"github.com/utafrali/productspec/internal/repository"
	apperrors "github.com/utafrali/productspec/pkg/errors"
	"github.com/utafrali/productspec/pkg/logger"
	"github.com/utafrali/productspec/pkg/tracing"
)

var tracer = tracing.Tracer("github.com/utafrali/productspec/internal/store")

// Publisher receives change notifications after the durable record has been
// written. Failures are logged and never fail the action.
type Publisher interface {
	PublishSnapshotSaved(ctx context.Context, key string, snapshot domain.Snapshot) error
	PublishStoreCleared(ctx context.Context, key string) error
}

// Store holds the editing session: one product, its specs and its variants.
// Every mutation replaces a whole slice and then writes the full snapshot to
// the repository. Readers always get copies.
type Store struct {
	mu       sync.RWMutex
	product  *domain.Product
	specs    []domain.Spec
	variants []domain.Variant

	repo      repository.SnapshotRepository
	publisher Publisher
	logger    *slog.Logger
}

// New builds a store and hydrates it from repo before returning. A missing
// record yields an empty store. A record that cannot be decoded is logged and
// left in place, and the store starts empty. Any other load error is returned.
func New(ctx context.Context, repo repository.SnapshotRepository, publisher Publisher, logger *slog.Logger) (*Store, error) {
	s := &Store{
		specs:     []domain.Spec{},
		variants:  []domain.Variant{},
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}

	snapshot, err := repo.Load(ctx)
	metrics.ObservePersist(metrics.OpLoad, ignoreNotFound(err))
	switch {
	case err == nil:
		s.hydrate(ctx, *snapshot)
	case errors.Is(err, apperrors.ErrNotFound):
		s.log(ctx).InfoContext(ctx, "no durable record found, starting empty")
	case errors.Is(err, repository.ErrCorrupt):
		s.log(ctx).ErrorContext(ctx, "durable record is corrupt, starting empty",
			slog.String("error", err.Error()),
		)
	default:
		return nil, fmt.Errorf("hydrate store: %w", err)
	}

	return s, nil
}

// hydrate installs a loaded snapshot. Records written before images were
// stripped, or by hand, go through the same image and id rules as input.
func (s *Store) hydrate(ctx context.Context, snapshot domain.Snapshot) {
	snap := snapshot.Clone()
	var stripped int

	for i := range snap.Specs {
		for j := range snap.Specs[i].Options {
			var ok bool
			if snap.Specs[i].Options[j].Image, ok = domain.StripInlineImage(snap.Specs[i].Options[j].Image); ok {
				stripped++
			}
		}
	}

	titles := domain.Titles(snap.Specs)
	for i := range snap.Variants {
		var ok bool
		if snap.Variants[i].Image, ok = domain.StripInlineImage(snap.Variants[i].Image); ok {
			stripped++
		}
		if snap.Variants[i].Specs == nil {
			snap.Variants[i].Specs = map[string]string{}
		}
		if snap.Variants[i].ID == "" {
			snap.Variants[i].ID = domain.VariantID(snap.Variants[i].Specs, titles)
		}
	}
	metrics.ObserveNormalization(metrics.KindImageStripped, stripped)

	s.product = snap.Product
	s.specs = snap.Specs
	s.variants = snap.Variants

	s.log(ctx).InfoContext(ctx, "store hydrated from durable record",
		slog.Bool("has_product", s.product != nil),
		slog.Int("specs", len(s.specs)),
		slog.Int("variants", len(s.variants)),
		slog.Int("images_stripped", stripped),
	)
}

// Product returns a copy of the current product, or nil if none is set.
func (s *Store) Product() *domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.product == nil {
		return nil
	}
	p := *s.product
	return &p
}

// Specs returns a copy of the current specs.
func (s *Store) Specs() []domain.Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneSpecs(s.specs)
}

// Variants returns a copy of the current variants.
func (s *Store) Variants() []domain.Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneVariants(s.variants)
}

// Snapshot returns a copy of the whole session.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Product:  s.product,
		Specs:    s.specs,
		Variants: s.variants,
	}.Clone()
}

// SetProduct replaces the product.
func (s *Store) SetProduct(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	p := product
	s.product = &p

	s.log(ctx).DebugContext(ctx, "product set",
		slog.String("product_id", p.ID),
		slog.String("name", p.Name),
		slog.String("description", p.Description),
	)

	return s.commit(ctx, "set_product")
}

// SetSpecs replaces all specs. Inline option images are dropped and option
// prices and stock are parsed with zero fallback.
func (s *Store) SetSpecs(ctx context.Context, in []domain.SpecInput) error {
	specs, rep := domain.NormalizeSpecs(in)
	s.observe(ctx, "set_specs", rep)

	s.mu.Lock()
	s.specs = specs

	s.log(ctx).DebugContext(ctx, "specs set",
		slog.Int("count", len(specs)),
		slog.Any("titles", domain.Titles(specs)),
	)

	return s.commit(ctx, "set_specs")
}

// AddSpec normalizes one spec like SetSpecs and appends it. Titles are not
// checked for duplicates.
func (s *Store) AddSpec(ctx context.Context, in domain.SpecInput) error {
	spec, rep := domain.NormalizeSpec(in)
	s.observe(ctx, "add_spec", rep)

	s.mu.Lock()
	specs := make([]domain.Spec, 0, len(s.specs)+1)
	specs = append(specs, s.specs...)
	s.specs = append(specs, spec)

	s.log(ctx).DebugContext(ctx, "spec added",
		slog.String("title", spec.Title),
		slog.Int("options", len(spec.Options)),
	)

	return s.commit(ctx, "add_spec")
}

// SetVariants replaces all variants. Inline images are dropped, price and
// stock are parsed with zero fallback and missing ids are derived from the
// spec choices.
func (s *Store) SetVariants(ctx context.Context, in []domain.VariantInput) error {
	s.mu.Lock()
	variants, rep := domain.NormalizeVariants(in, domain.Titles(s.specs))
	s.variants = variants

	s.log(ctx).DebugContext(ctx, "variants set",
		slog.Int("count", len(variants)),
	)

	err := s.commit(ctx, "set_variants")
	s.observe(ctx, "set_variants", rep)
	return err
}

// UpdateVariantQuantity sets the quantity of the first variant with the given
// id. An unknown id changes nothing and is not an error. Negative quantities
// are stored as 0.
func (s *Store) UpdateVariantQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 0 {
		quantity = 0
	}

	s.mu.Lock()
	idx := domain.FindVariant(s.variants, id)
	if idx < 0 {
		s.mu.Unlock()
		metrics.ObserveNormalization(metrics.KindVariantMiss, 1)
		s.log(ctx).DebugContext(ctx, "quantity update for unknown variant ignored",
			slog.String("variant_id", id),
		)
		return nil
	}

	variants := domain.CloneVariants(s.variants)
	variants[idx].Quantity = quantity
	s.variants = variants

	s.log(ctx).DebugContext(ctx, "variant quantity updated",
		slog.String("variant_id", id),
		slog.Int("quantity", quantity),
	)

	return s.commit(ctx, "update_variant_quantity")
}

// GenerateVariants rebuilds the variants from every combination of the
// current spec options. Variants whose id already exists keep their image,
// price, stock and quantity.
func (s *Store) GenerateVariants(ctx context.Context) error {
	s.mu.Lock()
	s.variants = domain.Enumerate(s.specs, s.variants)

	s.log(ctx).DebugContext(ctx, "variants generated",
		slog.Int("count", len(s.variants)),
	)

	return s.commit(ctx, "generate_variants")
}

// Clear resets the session and deletes the durable record.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.product = nil
	s.specs = []domain.Spec{}
	s.variants = []domain.Variant{}

	err := s.repo.Delete(ctx)
	metrics.ObservePersist(metrics.OpDelete, err)
	s.mu.Unlock()

	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to delete durable record",
			slog.String("error", err.Error()),
		)
		return apperrors.Unavailable("durable record could not be deleted", err)
	}

	if err := s.publisher.PublishStoreCleared(ctx, s.repo.Key()); err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to publish store.cleared event",
			slog.String("error", err.Error()),
		)
	}

	s.log(ctx).InfoContext(ctx, "store cleared")
	return nil
}

// commit writes the current state and releases the write lock. The in-memory
// change stays applied when the write fails.
func (s *Store) commit(ctx context.Context, action string) error {
	ctx, span := tracer.Start(ctx, "store.persist", trace.WithAttributes(
		attribute.String("store.action", action),
		attribute.String("store.key", s.repo.Key()),
	))
	defer span.End()

	snapshot := s.snapshotLocked()
	err := s.repo.Save(ctx, snapshot)
	metrics.ObservePersist(metrics.OpSave, err)
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "durable record write failed")
		s.log(ctx).ErrorContext(ctx, "failed to write durable record",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		return apperrors.Unavailable("durable record could not be written", err)
	}

	if err := s.publisher.PublishSnapshotSaved(ctx, s.repo.Key(), snapshot); err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to publish snapshot.saved event",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func (s *Store) observe(ctx context.Context, action string, rep domain.Report) {
	metrics.ObserveNormalization(metrics.KindImageStripped, rep.ImagesStripped)
	metrics.ObserveNormalization(metrics.KindPriceZeroed, rep.PricesZeroed)
	metrics.ObserveNormalization(metrics.KindStockZeroed, rep.StocksZeroed)

	if rep.Degraded() {
		s.log(ctx).InfoContext(ctx, "input normalized",
			slog.String("action", action),
			slog.Int("images_stripped", rep.ImagesStripped),
			slog.Int("prices_zeroed", rep.PricesZeroed),
			slog.Int("stocks_zeroed", rep.StocksZeroed),
		)
	}
}

// log returns s.logger enriched from ctx; every line carries store_key.
func (s *Store) log(ctx context.Context) *slog.Logger {
	return logger.WithContext(logger.WithStoreKey(ctx, s.repo.Key()), s.logger)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}
