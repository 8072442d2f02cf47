package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "targetlag"

var measurementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: metricsNamespace,
	Subsystem: "runner",
	Name:      "measurements_total",
	Help:      "Number of topic lag measurements by strategy and result",
}, []string{"strategy", "result"})

func init() {
	prometheus.MustRegister(measurementsTotal)
}
