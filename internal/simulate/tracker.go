// internal/simulate/tracker.go
package simulate

import (
	"sort"
	"sync"
	"time"

	"github.com/mwiater/dokimi/internal/loadtest"
)

// Tracker accumulates publish outcomes across every device in the
// fleet. All methods are safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	samples []loadtest.RawSample
	latency RunningStat
	success int
	started time.Time
}

// NewTracker returns a tracker whose throughput clock starts now.
func NewTracker() *Tracker {
	return &Tracker{started: time.Now()}
}

// Record notes one publish attempt and its wall-clock latency.
func (t *Tracker) Record(deviceID string, latency time.Duration, ok bool) {
	ms := latency.Seconds() * 1000

	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, loadtest.RawSample{
		Timestamp: time.Now().UTC(),
		DeviceID:  deviceID,
		LatencyMS: ms,
		OK:        ok,
	})
	t.latency.Push(ms)
	if ok {
		t.success++
	}
}

// Snapshot captures point-in-time fleet statistics.
type Snapshot struct {
	Sent         int
	Succeeded    int
	SuccessRate  float64
	AvgLatencyMS float64
	P95LatencyMS float64
	Throughput   float64
}

// Snapshot summarizes everything recorded so far.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{Sent: len(t.samples), Succeeded: t.success}
	if snap.Sent == 0 {
		return snap
	}
	snap.SuccessRate = float64(t.success) / float64(snap.Sent) * 100
	snap.AvgLatencyMS = t.latency.Mean

	latencies := make([]float64, 0, len(t.samples))
	for _, s := range t.samples {
		latencies = append(latencies, s.LatencyMS)
	}
	sort.Float64s(latencies)
	snap.P95LatencyMS = loadtest.Percentile(latencies, 0.95)

	if elapsed := time.Since(t.started).Seconds(); elapsed > 0 {
		snap.Throughput = float64(snap.Sent) / elapsed
	}
	return snap
}

// Samples returns a copy of every recorded sample.
func (t *Tracker) Samples() []loadtest.RawSample {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]loadtest.RawSample, len(t.samples))
	copy(out, t.samples)
	return out
}
