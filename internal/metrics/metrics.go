package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Normalization kinds.
const (
	KindImageStripped = "image_stripped"
	KindPriceZeroed   = "price_zeroed"
	KindStockZeroed   = "stock_zeroed"
	KindVariantMiss   = "variant_miss"
)

// Persist operations and results.
const (
	OpSave   = "save"
	OpDelete = "delete"
	OpLoad   = "load"

	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// Normalizations counts values the store degraded instead of rejecting.
	Normalizations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "productspec_normalizations_total",
			Help: "Total number of input values stripped or defaulted by the store",
		},
		[]string{"kind"},
	)

	// Persists counts durable record operations by outcome.
	Persists = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "productspec_persist_total",
			Help: "Total number of durable record operations",
		},
		[]string{"op", "result"},
	)
)

// ObserveNormalization adds n to the counter for kind. Zero is ignored.
func ObserveNormalization(kind string, n int) {
	if n > 0 {
		Normalizations.WithLabelValues(kind).Add(float64(n))
	}
}

// ObservePersist records one durable record operation.
func ObservePersist(op string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	Persists.WithLabelValues(op, result).Inc()
}
