package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alsobought",
			Name:      "pipeline_runs_total",
			Help:      "Total number of purchase matrix builds",
		},
		[]string{"status"},
	)

	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "alsobought",
			Name:      "pipeline_duration_seconds",
			Help:      "Purchase matrix build duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	OrdersWithoutBuyer = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alsobought",
			Name:      "orders_without_buyer_total",
			Help:      "Order rows whose buyer field had no username",
		},
		[]string{"policy"}, // "drop" / "bucket"
	)

	DatasetCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "alsobought",
			Name:      "dataset_cache_total",
			Help:      "Uploaded dataset cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

func init() {
	prometheus.MustRegister(PipelineRunsTotal)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(OrdersWithoutBuyer)
	prometheus.MustRegister(DatasetCacheTotal)
}
