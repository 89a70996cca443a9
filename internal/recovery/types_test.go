// internal/recovery/types_test.go
package recovery

import (
	"testing"
	"time"
)

func TestRunAppendPreservesOrder(t *testing.T) {
	run := NewRun()
	if run.ID == "" {
		t.Fatal("expected a run ID")
	}
	for i := 0; i < 5; i++ {
		run.Append(PhaseSample{DevicesCached: i})
	}
	samples := run.Samples()
	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if s.DevicesCached != i {
			t.Errorf("sample %d out of order: %d", i, s.DevicesCached)
		}
	}
}

func TestRunDurations(t *testing.T) {
	run := NewRun()
	if run.Downtime() != 0 || run.TimeToRecovery() != 0 {
		t.Fatal("expected zero durations before any stamps")
	}

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	run.FailureAt = base
	run.RecoveryStartAt = base.Add(60 * time.Second)
	run.RecoveredAt = base.Add(95 * time.Second)

	if got := run.Downtime(); got != 60*time.Second {
		t.Errorf("Downtime = %v, want 60s", got)
	}
	if got := run.TimeToRecovery(); got != 35*time.Second {
		t.Errorf("TimeToRecovery = %v, want 35s", got)
	}
}
