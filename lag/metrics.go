package lag

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Self instrumentation of the lag queries. The measured lag values are deliberately not exported.

const metricsNamespace = "targetlag"

var (
	queriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "lag",
		Name:      "queries_total",
		Help:      "Number of lag queries by operation and result",
	}, []string{"operation", "result"})

	queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "lag",
		Name:      "query_duration_seconds",
		Help:      "Duration of lag queries including group discovery",
		Buckets:   prometheus.ExponentialBuckets(0.005, 3, 9),
	}, []string{"operation"})

	scannedGroupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "lag",
		Name:      "scanned_groups_total",
		Help:      "Number of consumer groups whose committed offsets have been inspected during group discovery",
	})

	subscriptionCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "lag",
		Name:      "subscription_cache_lookups_total",
		Help:      "Lookups of the topic subscription cache by result (hit or miss)",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(queriesTotal)
	prometheus.MustRegister(queryDuration)
	prometheus.MustRegister(scannedGroupsTotal)
	prometheus.MustRegister(subscriptionCacheLookups)
}
