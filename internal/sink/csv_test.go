// internal/sink/csv_test.go
package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/dokimi/internal/loadtest"
	"github.com/mwiater/dokimi/internal/recovery"
)

// TestWriteSummariesSchema pins the artifact schema: the exact header
// order and two-decimal float rendering.
func TestWriteSummariesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "load-test-summary.csv")
	summaries := []loadtest.Summary{
		{Devices: 10, TotalMessages: 1000, SuccessRate: 99.0, AvgLatency: 12.345, P50Latency: 10, P95Latency: 20, P99Latency: 30, Throughput: 8.3333},
	}

	if err := WriteSummaries(path, summaries); err != nil {
		t.Fatalf("WriteSummaries error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	wantHeader := "devices,total_messages,success_rate,avg_latency,p50_latency,p95_latency,p99_latency,throughput"
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	if lines[1] != "10,1000,99.00,12.35,10.00,20.00,30.00,8.33" {
		t.Errorf("row = %q", lines[1])
	}
}

// TestWriteTimelineRoundTrip writes N phase samples and reads them
// back: every row must survive with its phase, count, and notes.
func TestWriteTimelineRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recovery-test-results.csv")
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	samples := []recovery.PhaseSample{
		{Timestamp: base, Phase: recovery.PhaseBaseline, DevicesCached: 20, Notes: "Baseline established"},
		{Timestamp: base.Add(40 * time.Second), Phase: recovery.PhaseFailure, DevicesCached: 20, Notes: "Failure injected (operator confirmed)"},
		{Timestamp: base.Add(45 * time.Second), Phase: recovery.PhaseDowntime, DevicesCached: 0, Notes: "Downtime 5s"},
	}

	if err := WriteTimeline(path, samples); err != nil {
		t.Fatalf("WriteTimeline error: %v", err)
	}
	got, err := ReadTimeline(path)
	if err != nil {
		t.Fatalf("ReadTimeline error: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(got))
	}
	for i := range samples {
		if !got[i].Timestamp.Equal(samples[i].Timestamp) {
			t.Errorf("sample %d timestamp = %v, want %v", i, got[i].Timestamp, samples[i].Timestamp)
		}
		if got[i].Phase != samples[i].Phase || got[i].DevicesCached != samples[i].DevicesCached || got[i].Notes != samples[i].Notes {
			t.Errorf("sample %d = %+v, want %+v", i, got[i], samples[i])
		}
	}
}

// TestWriteTimelineEmpty pins the interrupt contract for a run that
// had gathered nothing yet: the artifact still appears, header only.
func TestWriteTimelineEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recovery-test-results-partial.csv")
	if err := WriteTimeline(path, nil); err != nil {
		t.Fatalf("WriteTimeline error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if strings.TrimSpace(string(data)) != "timestamp,phase,devices_cached,notes" {
		t.Errorf("unexpected content: %q", string(data))
	}
}

func TestWriteRawSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_10.csv")
	samples := []loadtest.RawSample{
		{Timestamp: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), DeviceID: "watch-0001", LatencyMS: 12.5, OK: true},
		{Timestamp: time.Date(2026, 8, 20, 10, 0, 2, 0, time.UTC), DeviceID: "watch-0002", LatencyMS: 90, OK: false},
	}
	if err := WriteRawSamples(path, samples); err != nil {
		t.Fatalf("WriteRawSamples error: %v", err)
	}

	batch, err := loadtest.LoadBatch(path)
	if err != nil {
		t.Fatalf("LoadBatch error: %v", err)
	}
	if len(batch.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(batch.Samples))
	}
	if !batch.Samples[0].OK || batch.Samples[1].OK {
		t.Errorf("success flags did not round-trip: %+v", batch.Samples)
	}
}

func TestPartialPath(t *testing.T) {
	cases := map[string]string{
		"results/recovery-test-results.csv": "results/recovery-test-results-partial.csv",
		"out.csv":                           "out-partial.csv",
		"plain":                             "plain-partial",
	}
	for in, want := range cases {
		if got := PartialPath(in); got != want {
			t.Errorf("PartialPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}
	info, err := os.Stat(filepath.Dir(path))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory, err=%v", err)
	}
}
