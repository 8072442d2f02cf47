package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics about the requests the client sends to the brokers. These describe the health of the measurement process,
// never the measured lag itself.

const metricsNamespace = "targetlag"

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "kafka",
		Name:      "requests_total",
		Help:      "Number of Kafka requests sent by the client, by request type and result",
	}, []string{"request", "result"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "kafka",
		Name:      "request_duration_seconds",
		Help:      "Time from writing a Kafka request until its response has been read",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"request"})
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
}
