// internal/recovery/monitor.go
package recovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwiater/dokimi/internal/oracle"
)

// Default cadence: half a minute for the cache to settle, five-second
// polls, a one-minute downtime window and a ninety-second recovery
// ceiling.
const (
	DefaultSettleDelay   = 30 * time.Second
	DefaultPollInterval  = 5 * time.Second
	DefaultDowntimePolls = 12
	DefaultRecoveryPolls = 18
)

// ErrInterrupted reports that the run was stopped before it finished.
// The samples gathered up to that point are still valid.
var ErrInterrupted = errors.New("recovery run interrupted")

// Plan fixes the timing of a run.
type Plan struct {
	SettleDelay   time.Duration
	PollInterval  time.Duration
	DowntimePolls int
	RecoveryPolls int
}

// DefaultPlan returns the standard cadence.
func DefaultPlan() Plan {
	return Plan{
		SettleDelay:   DefaultSettleDelay,
		PollInterval:  DefaultPollInterval,
		DowntimePolls: DefaultDowntimePolls,
		RecoveryPolls: DefaultRecoveryPolls,
	}
}

// Monitor walks one recovery experiment through its five stages:
// baseline, failure, downtime observation, recovery start, and the
// recovery watch.
type Monitor struct {
	Oracle       oracle.Oracle
	FailureGate  Gate
	RecoveryGate Gate
	Observer     Observer
	Plan         Plan
}

// Run executes the experiment and returns the aggregated run record.
// The record is never nil; on interrupt or fault it holds every sample
// gathered so far, so callers can persist a partial timeline.
func (m *Monitor) Run(ctx context.Context) (*Run, error) {
	run := NewRun()
	watcher := m.Observer
	if watcher == nil {
		watcher = NopObserver{}
	}

	// Stage 1: baseline.
	watcher.PhaseEntered(PhaseBaseline, fmt.Sprintf("Letting the cache settle for %s", m.Plan.SettleDelay))
	if err := sleep(ctx, m.Plan.SettleDelay); err != nil {
		return m.finish(run, watcher, err)
	}
	count, err := m.Oracle.LiveCount(ctx)
	if err != nil {
		return m.finish(run, watcher, fmt.Errorf("baseline read: %w", err))
	}
	run.BaselineCount = count
	m.record(run, watcher, PhaseBaseline, count, "Baseline established")

	// Stage 2: failure gate.
	watcher.PhaseEntered(PhaseFailure, "Waiting for failure injection")
	if err := m.FailureGate.Wait(ctx); err != nil {
		return m.finish(run, watcher, err)
	}
	count, err = m.Oracle.LiveCount(ctx)
	if err != nil {
		return m.finish(run, watcher, fmt.Errorf("failure read: %w", err))
	}
	run.FailureAt = time.Now().UTC()
	m.record(run, watcher, PhaseFailure, count, "Failure injected (operator confirmed)")

	// Stage 3: downtime observation.
	watcher.PhaseEntered(PhaseDowntime, fmt.Sprintf("Observing %d polls of downtime", m.Plan.DowntimePolls))
	for i := 0; i < m.Plan.DowntimePolls; i++ {
		if err := sleep(ctx, m.Plan.PollInterval); err != nil {
			return m.finish(run, watcher, err)
		}
		count, err = m.Oracle.LiveCount(ctx)
		if err != nil {
			return m.finish(run, watcher, fmt.Errorf("downtime read: %w", err))
		}
		elapsed := int(time.Since(run.FailureAt).Seconds())
		m.record(run, watcher, PhaseDowntime, count, fmt.Sprintf("Downtime %ds", elapsed))
	}

	// Stage 4: recovery gate.
	watcher.PhaseEntered(PhaseRecoveryStart, "Waiting for component restart")
	if err := m.RecoveryGate.Wait(ctx); err != nil {
		return m.finish(run, watcher, err)
	}
	count, err = m.Oracle.LiveCount(ctx)
	if err != nil {
		return m.finish(run, watcher, fmt.Errorf("restart read: %w", err))
	}
	run.RecoveryStartAt = time.Now().UTC()
	m.record(run, watcher, PhaseRecoveryStart, count, "Component restarted (operator confirmed)")

	// Stage 5: recovery watch. Polling stops the moment the device
	// count reaches the baseline again.
	watcher.PhaseEntered(PhaseRecovering, fmt.Sprintf("Polling until the cache reaches the baseline of %d", run.BaselineCount))
	for i := 0; i < m.Plan.RecoveryPolls; i++ {
		if err := sleep(ctx, m.Plan.PollInterval); err != nil {
			return m.finish(run, watcher, err)
		}
		count, err = m.Oracle.LiveCount(ctx)
		if err != nil {
			return m.finish(run, watcher, fmt.Errorf("recovery read: %w", err))
		}
		elapsed := int(time.Since(run.RecoveryStartAt).Seconds())
		if count >= run.BaselineCount {
			run.RecoveredAt = time.Now().UTC()
			m.record(run, watcher, PhaseRecovered, count, fmt.Sprintf("Full recovery in %ds", elapsed))
			run.Outcome = OutcomeCompleted
			watcher.RunFinished(run)
			return run, nil
		}
		m.record(run, watcher, PhaseRecovering, count, fmt.Sprintf("Recovery progress %ds", elapsed))
	}

	elapsed := int(time.Since(run.RecoveryStartAt).Seconds())
	m.record(run, watcher, PhaseTimedOut, count, fmt.Sprintf("Recovery window exhausted after %ds", elapsed))
	run.Outcome = OutcomeTimedOut
	watcher.RunFinished(run)
	return run, nil
}

// record appends one observation and notifies the observer.
func (m *Monitor) record(run *Run, watcher Observer, phase Phase, count int, notes string) {
	sample := PhaseSample{
		Timestamp:     time.Now().UTC(),
		Phase:         phase,
		DevicesCached: count,
		Notes:         notes,
	}
	run.Append(sample)
	watcher.SampleRecorded(sample, run.BaselineCount)
}

// finish closes out a run that ended early, tagging it interrupted or
// faulted before handing it back with the samples gathered so far.
func (m *Monitor) finish(run *Run, watcher Observer, err error) (*Run, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		run.Outcome = OutcomeInterrupted
		watcher.RunFinished(run)
		return run, ErrInterrupted
	}
	run.Outcome = OutcomeFaulted
	watcher.RunFinished(run)
	return run, err
}

// sleep waits for d or until ctx is canceled. Non-positive durations
// only check for cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
