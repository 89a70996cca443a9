// internal/recovery/types.go

// Package recovery drives the five-phase recovery experiment against a
// liveness oracle and aggregates everything it observes.
package recovery

import (
	"time"

	"github.com/google/uuid"
)

// Phase identifies one stage of the recovery lifecycle. The values are
// the exact strings written to the timeline artifact.
type Phase string

const (
	PhaseBaseline      Phase = "baseline"
	PhaseFailure       Phase = "failure"
	PhaseDowntime      Phase = "downtime"
	PhaseRecoveryStart Phase = "recovery_start"
	PhaseRecovering    Phase = "recovering"
	PhaseRecovered     Phase = "recovered"
	// PhaseTimedOut marks a run whose recovery window exhausted before
	// the device count reached the baseline.
	PhaseTimedOut Phase = "timed_out"
)

// Outcome states how a run ended.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeTimedOut    Outcome = "timed_out"
	OutcomeInterrupted Outcome = "interrupted"
	OutcomeFaulted     Outcome = "faulted"
)

// PhaseSample is one oracle observation tagged with the phase the run
// was in when it was taken.
type PhaseSample struct {
	Timestamp     time.Time `json:"timestamp"`
	Phase         Phase     `json:"phase"`
	DevicesCached int       `json:"devices_cached"`
	Notes         string    `json:"notes"`
}

// Run aggregates every observation of a single recovery experiment.
// Samples are append-only and stay in poll order, so the persisted
// timeline reads strictly chronologically.
type Run struct {
	ID              string
	StartedAt       time.Time
	BaselineCount   int
	Outcome         Outcome
	FailureAt       time.Time
	RecoveryStartAt time.Time
	RecoveredAt     time.Time

	samples []PhaseSample
}

// NewRun starts an empty run record.
func NewRun() *Run {
	return &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// Append records one sample at the end of the timeline.
func (r *Run) Append(s PhaseSample) {
	r.samples = append(r.samples, s)
}

// Samples returns the recorded samples in insertion order.
func (r *Run) Samples() []PhaseSample {
	return r.samples
}

// Downtime reports how long the failure window lasted, from failure
// injection to component restart. Zero until both stamps exist.
func (r *Run) Downtime() time.Duration {
	if r.FailureAt.IsZero() || r.RecoveryStartAt.IsZero() {
		return 0
	}
	return r.RecoveryStartAt.Sub(r.FailureAt)
}

// TimeToRecovery reports the span from component restart to the
// recovered sample. Zero for runs that never recovered.
func (r *Run) TimeToRecovery() time.Duration {
	if r.RecoveryStartAt.IsZero() || r.RecoveredAt.IsZero() {
		return 0
	}
	return r.RecoveredAt.Sub(r.RecoveryStartAt)
}
