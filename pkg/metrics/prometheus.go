package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SearchesTotal    prometheus.Counter
	SourceFetches    *prometheus.CounterVec
	RecordsValidated prometheus.Counter
	RecordsRejected  prometheus.Counter
	FetchDuration    prometheus.Histogram
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SearchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of search pipeline runs",
		}),
		SourceFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetches_total",
			Help:      "The total number of per-source fetch tasks by outcome",
		}, []string{"outcome"}),
		RecordsValidated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_validated_total",
			Help:      "The total number of records that passed authenticity validation",
		}),
		RecordsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "The total number of records rejected by authenticity validation",
		}),
		FetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Time taken by individual source fetches",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
