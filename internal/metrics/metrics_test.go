package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type call struct {
	name   string
	value  float64
	labels Labels
}

// recorder is an in-memory Backend.
type recorder struct {
	mu       sync.Mutex
	counters []call
	observed []call
	flushes  int
}

func (r *recorder) IncCounter(name string, delta float64, labels Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = append(r.counters, call{name, delta, labels})
}

func (r *recorder) ObserveHistogram(name string, value float64, labels Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observed = append(r.observed, call{name, value, labels})
}

func (r *recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
	return nil
}

// install swaps in a recorder for the duration of the test.
func install(t *testing.T) *recorder {
	t.Helper()
	prev := current()
	r := &recorder{}
	SetBackend(r)
	t.Cleanup(func() { SetBackend(prev) })
	return r
}

func TestRecordStep(t *testing.T) {
	r := install(t)

	RecordStep("offers", "parse", nil, 2*time.Second)
	RecordStep("weather", "deltas", errors.New("boom"), 1500*time.Millisecond)

	tests := []struct {
		i        int
		pipeline string
		step     string
		status   string
		seconds  float64
	}{
		{0, "offers", "parse", StatusSucceeded, 2},
		{1, "weather", "deltas", StatusFailed, 1.5},
	}
	if len(r.counters) != 2 || len(r.observed) != 2 {
		t.Fatalf("counters=%d observed=%d, want 2 and 2", len(r.counters), len(r.observed))
	}
	for _, tt := range tests {
		c, h := r.counters[tt.i], r.observed[tt.i]
		if c.name != StepTotal || c.value != 1 {
			t.Errorf("counter[%d] = %s %v", tt.i, c.name, c.value)
		}
		for k, want := range map[string]string{"pipeline": tt.pipeline, "step": tt.step, "status": tt.status} {
			if c.labels[k] != want {
				t.Errorf("counter[%d] %s = %q, want %q", tt.i, k, c.labels[k], want)
			}
		}
		if h.name != StepDuration || h.value < tt.seconds-0.001 || h.value > tt.seconds+0.001 {
			t.Errorf("observed[%d] = %s %v, want %s ~%v", tt.i, h.name, h.value, StepDuration, tt.seconds)
		}
	}
}

func TestRecordRowAndBatches(t *testing.T) {
	r := install(t)

	RecordRow("offers", "parsed", 3)
	RecordRow("offers", "dropped", 0)
	RecordRow("schedule", "joined", 5)
	RecordBatches("offers", 2)
	RecordBatches("offers", -1)

	want := []call{
		{RecordsTotal, 3, Labels{"pipeline": "offers", "kind": "parsed"}},
		{RecordsTotal, 5, Labels{"pipeline": "schedule", "kind": "joined"}},
		{BatchesTotal, 2, Labels{"pipeline": "offers"}},
	}
	if len(r.counters) != len(want) {
		t.Fatalf("got %d counter calls, want %d", len(r.counters), len(want))
	}
	for i, w := range want {
		got := r.counters[i]
		if got.name != w.name || got.value != w.value || len(got.labels) != len(w.labels) {
			t.Fatalf("counter[%d] = %+v, want %+v", i, got, w)
		}
		for k, v := range w.labels {
			if got.labels[k] != v {
				t.Fatalf("counter[%d] %s = %q, want %q", i, k, got.labels[k], v)
			}
		}
	}
}

func TestSetBackendAndFlush(t *testing.T) {
	r := install(t)

	SetBackend(nil)
	if current() != r {
		t.Fatal("SetBackend(nil) replaced the backend")
	}
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if r.flushes != 1 {
		t.Fatalf("flushes = %d, want 1", r.flushes)
	}
}

func TestTimeReturnsStepError(t *testing.T) {
	r := install(t)

	want := errors.New("export failed")
	if err := Time("weather", "export", func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("Time = %v, want %v", err, want)
	}
	if err := Time("weather", "generate", func() error { return nil }); err != nil {
		t.Fatalf("Time = %v, want nil", err)
	}
	if r.counters[0].labels["status"] != StatusFailed || r.counters[1].labels["status"] != StatusSucceeded {
		t.Fatalf("statuses = %v, %v", r.counters[0].labels, r.counters[1].labels)
	}
}

func TestConcurrentRecording(t *testing.T) {
	r := install(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordRow("offers", "inserted", 1)
		}()
	}
	wg.Wait()
	if len(r.counters) != 8 {
		t.Fatalf("counters = %d, want 8", len(r.counters))
	}
}
