package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/iNicoNavarro/data-problems/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewBackendRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend("energyetl", ""); err == nil {
		t.Fatal("expected error for empty gateway URL")
	}
}

func TestBackendRecordsPerPipeline(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	ok := metrics.Labels{"pipeline": "weather", "step": "generate", "status": metrics.StatusSucceeded}
	b.IncCounter(metrics.StepTotal, 1, ok)
	b.ObserveHistogram(metrics.StepDuration, 0.25, ok)
	b.IncCounter(metrics.RecordsTotal, 200, metrics.Labels{"pipeline": "weather", "kind": "generated"})
	b.IncCounter(metrics.RecordsTotal, 24, metrics.Labels{"pipeline": "offers", "kind": "parsed"})
	b.IncCounter(metrics.BatchesTotal, 2, metrics.Labels{"pipeline": "offers"})
	b.IncCounter("unknown_metric", 5, nil)
	b.ObserveHistogram("unknown_histogram", 1, nil)

	if got := testutil.ToFloat64(b.steps.WithLabelValues("weather", "generate", metrics.StatusSucceeded)); got != 1 {
		t.Fatalf("steps = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.records.WithLabelValues("weather", "generated")); got != 200 {
		t.Fatalf("weather records = %v, want 200", got)
	}
	if got := testutil.ToFloat64(b.records.WithLabelValues("offers", "parsed")); got != 24 {
		t.Fatalf("offers records = %v, want 24", got)
	}
	if got := testutil.ToFloat64(b.batches.WithLabelValues("offers")); got != 2 {
		t.Fatalf("batches = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(b.durations); n != 1 {
		t.Fatalf("histogram series = %d, want 1", n)
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		path string
		body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		path, body = r.URL.Path, string(raw)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("energyetl", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter(metrics.RecordsTotal, 3, metrics.Labels{"pipeline": "offers", "kind": "parsed"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(path, "/job/energyetl") {
		t.Fatalf("push path = %q, want job grouping", path)
	}
	if body == "" {
		t.Fatal("push body is empty")
	}
}

func TestFlushReportsGatewayError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := NewBackend("energyetl", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if err := b.Flush(); err == nil {
		t.Fatal("expected push error")
	}
}
