package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"

	"github.com/utafrali/productspec/internal/domain"
	"github.com/utafrali/productspec/internal/repository"
	apperrors "github.com/utafrali/productspec/pkg/errors"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = gobreaker.ErrOpenState

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "productspec_storage_breaker_state",
		Help: "State of the durable storage circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

// Config holds circuit breaker settings.
type Config struct {
	// Name identifies the breaker in logs and metrics.
	Name string

	// MaxRequests is how many calls may pass while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts periodically; 0 never clears.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// FailureRatio trips the breaker once reached, after MinRequests calls.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultConfig returns settings suited to a local key-value store.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      15 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Repository guards a SnapshotRepository with a circuit breaker so a dead
// backend fails fast instead of stalling every mutation on its timeout.
// A missing record counts as success.
type Repository struct {
	next    repository.SnapshotRepository
	breaker *gobreaker.CircuitBreaker[any]
}

// Wrap returns next guarded by a breaker configured with cfg.
func Wrap(next repository.SnapshotRepository, cfg Config, logger *slog.Logger) *Repository {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperrors.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("storage circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &Repository{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// Key returns the wrapped repository's key.
func (r *Repository) Key() string {
	return r.next.Key()
}

// Load reads through the breaker.
func (r *Repository) Load(ctx context.Context) (*domain.Snapshot, error) {
	res, err := r.breaker.Execute(func() (any, error) {
		return r.next.Load(ctx)
	})
	if err != nil {
		return nil, wrapOpen(err)
	}
	return res.(*domain.Snapshot), nil
}

// Save writes through the breaker.
func (r *Repository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	_, err := r.breaker.Execute(func() (any, error) {
		return nil, r.next.Save(ctx, snapshot)
	})
	return wrapOpen(err)
}

// Delete deletes through the breaker.
func (r *Repository) Delete(ctx context.Context) error {
	_, err := r.breaker.Execute(func() (any, error) {
		return nil, r.next.Delete(ctx)
	})
	return wrapOpen(err)
}

// Ping bypasses the breaker so readiness reflects the real backend.
func (r *Repository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// State returns the current breaker state.
func (r *Repository) State() gobreaker.State {
	return r.breaker.State()
}

func wrapOpen(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("durable storage circuit open: %w", err)
	}
	return err
}
