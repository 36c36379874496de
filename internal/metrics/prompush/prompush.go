// Package prompush pushes pipeline metrics to a Prometheus Pushgateway.
// A batch run is too short-lived to be scraped, so the registry is pushed
// once when the CLI exits.
package prompush

import (
	"fmt"

	"github.com/iNicoNavarro/data-problems/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend collects metrics in a private registry and pushes it on Flush.
type Backend struct {
	pusher *push.Pusher
	reg    *prometheus.Registry

	steps     *prometheus.CounterVec
	durations *prometheus.HistogramVec
	records   *prometheus.CounterVec
	batches   *prometheus.CounterVec
}

// NewBackend returns a backend pushing to gatewayURL under the Pushgateway
// job jobName ("energyetl" when empty).
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "energyetl"
	}

	b := &Backend{
		reg: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline step executions by pipeline, step and status.",
		}, []string{"pipeline", "step", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metrics.StepDuration,
			Help:    "Pipeline step duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"pipeline", "step", "status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Records handled by pipeline and kind (parsed, dropped, inserted, exported, ...).",
		}, []string{"pipeline", "kind"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Loader batches flushed by pipeline.",
		}, []string{"pipeline"}),
	}
	for _, c := range []prometheus.Collector{b.steps, b.durations, b.records, b.batches} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}
	b.pusher = push.New(gatewayURL, jobName).Gatherer(b.reg)
	return b, nil
}

// IncCounter implements metrics.Backend. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, l metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		b.steps.WithLabelValues(l["pipeline"], l["step"], l["status"]).Add(delta)
	case metrics.RecordsTotal:
		b.records.WithLabelValues(l["pipeline"], l["kind"]).Add(delta)
	case metrics.BatchesTotal:
		b.batches.WithLabelValues(l["pipeline"]).Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, l metrics.Labels) {
	if name != metrics.StepDuration {
		return
	}
	b.durations.WithLabelValues(l["pipeline"], l["step"], l["status"]).Observe(value)
}

// Flush replaces the job's metric group on the Pushgateway.
func (b *Backend) Flush() error {
	if err := b.pusher.Push(); err != nil {
		return fmt.Errorf("prompush: push: %w", err)
	}
	return nil
}
