// Package metrics exposes Prometheus collectors for query generation.
package metrics

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ForwardTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audioquery_forward_total",
		Help: "Number of query generator forward passes",
	}, []string{"backend"})

	ForwardDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "audioquery_forward_duration_seconds",
		Help:    "Latency of query generator forward passes",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"backend"})

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "audioquery_batch_size",
		Help:    "Distribution of batch sizes seen by forward passes",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
	})

	NumericalInstability = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audioquery_numerical_instability_total",
		Help: "Number of NaN/Inf values detected in tensors",
	}, []string{"tensor", "type"})
)

// ObserveForward records one forward pass on the named backend.
func ObserveForward(backend string, batch int, elapsed time.Duration) {
	ForwardTotal.WithLabelValues(backend).Inc()
	ForwardDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	BatchSize.Observe(float64(batch))
}

// CountNonFinite scans data, adds NaN and Inf occurrences to
// NumericalInstability under the given tensor name and returns both counts.
func CountNonFinite(name string, data []float32) (nans, infs int) {
	for _, v := range data {
		f := float64(v)
		switch {
		case math.IsNaN(f):
			nans++
		case math.IsInf(f, 0):
			infs++
		}
	}
	if nans > 0 {
		NumericalInstability.WithLabelValues(name, "nan").Add(float64(nans))
	}
	if infs > 0 {
		NumericalInstability.WithLabelValues(name, "inf").Add(float64(infs))
	}
	return nans, infs
}
