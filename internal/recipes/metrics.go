package recipes

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebook_engine_operations_total",
			Help: "Total number of engine operations by outcome",
		},
		[]string{"operation", "result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipebook_engine_operation_duration_seconds",
			Help:    "Duration of engine operations in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"operation"},
	)

	lookupResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipebook_engine_lookup_results",
			Help:    "Number of recipes returned per lookup",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"operation"},
	)

	catalogueEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipebook_store_entities",
			Help: "Entities currently held by the most recently mutated store",
		},
		[]string{"kind"},
	)
)

func observe(operation string, start time.Time, err error) {
	operationsTotal.WithLabelValues(operation, Kind(err)).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
