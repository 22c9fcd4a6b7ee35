package counters

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sizingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sizing",
	Name:      "requests_total",
	Help:      "Total number of dimensioning requests by outcome.",
}, []string{"outcome"})

var sizingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "sizing",
	Name:      "request_duration_seconds",
	Help:      "Duration of dimensioning requests.",
	Buckets:   prometheus.DefBuckets,
})

var sizingOptionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "sizing",
	Name:      "options_last",
	Help:      "Number of options produced by the last successful request.",
})

var estimatorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pvwatts",
	Name:      "requests_total",
	Help:      "Total number of yield estimation calls by outcome.",
}, []string{"outcome"})

var catalogSizeGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "catalog",
	Name:      "models",
	Help:      "Number of models in the equipment catalog.",
}, []string{"table"})

func CountSizingRequest(outcome string) {
	if len(outcome) == 0 {
		return
	}
	sizingRequests.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func ObserveSizingDuration(seconds float64) {
	sizingDuration.Observe(seconds)
}

func ObserveSizingOptions(count int) {
	sizingOptionsGauge.Set(float64(count))
}

func CountEstimatorRequest(outcome string) {
	if len(outcome) == 0 {
		return
	}
	estimatorRequests.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func ObserveCatalogSize(table string, count int) {
	if len(table) == 0 {
		return
	}
	catalogSizeGauge.With(prometheus.Labels{"table": table}).Set(float64(count))
}
