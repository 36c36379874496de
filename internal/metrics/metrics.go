// Package metrics records pipeline step timings and record counts through a
// pluggable Backend. The default backend discards everything, so pipelines
// instrument unconditionally and the CLI decides whether anything is kept.
//
// Every metric carries a "pipeline" label (offers, schedule, weather). Step
// metrics add "step" and "status"; record counters add "kind".
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by this package.
const (
	StepTotal    = "etl_step_total"
	StepDuration = "etl_step_duration_seconds"
	RecordsTotal = "etl_records_total"
	BatchesTotal = "etl_batches_total"
)

// Step statuses. They match the run ledger's vocabulary.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend receives counters and duration observations.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered data (Pushgateway, DogStatsD). Called once at exit.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b. A nil b is ignored.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush flushes the installed backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of step and observes its duration.
func RecordStep(pipeline, step string, err error, d time.Duration) {
	status := StatusSucceeded
	if err != nil {
		status = StatusFailed
	}
	lbls := Labels{"pipeline": pipeline, "step": step, "status": status}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// Time runs fn as step of pipeline, records it and returns fn's error.
func Time(pipeline, step string, fn func() error) error {
	start := time.Now()
	err := fn()
	RecordStep(pipeline, step, err, time.Since(start))
	return err
}

// RecordRow adds delta records of kind. Kinds in use: parsed, dropped,
// inserted, skipped, joined, generated, exported. Non-positive deltas are
// ignored.
func RecordRow(pipeline, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{"pipeline": pipeline, "kind": kind})
}

// RecordBatches adds delta flushed loader batches.
func RecordBatches(pipeline string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"pipeline": pipeline})
}
