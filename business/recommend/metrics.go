package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Count of recommendation requests by outcome.",
		},
		[]string{"outcome"},
	)

	RecommendLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_latency_seconds",
			Help:    "Latency of recommendation requests.",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecallFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_recall_failures_total",
			Help: "Count of recall branches that failed and were treated as empty.",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(RecommendRequestsTotal, RecommendLatency, RecallFailuresTotal)
}
