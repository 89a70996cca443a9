// internal/recovery/observer.go
package recovery

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Observer receives run lifecycle callbacks as the monitor works. The
// monitor never depends on what observers do with them.
type Observer interface {
	// PhaseEntered fires once when the monitor moves into a stage.
	PhaseEntered(phase Phase, note string)
	// SampleRecorded fires after every appended sample. The baseline is
	// 0 until the baseline stage has completed.
	SampleRecorded(sample PhaseSample, baseline int)
	// RunFinished fires exactly once, whatever the outcome.
	RunFinished(run *Run)
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) PhaseEntered(Phase, string)      {}
func (NopObserver) SampleRecorded(PhaseSample, int) {}
func (NopObserver) RunFinished(*Run)                {}

// MultiObserver fans every callback out to its members in order.
type MultiObserver []Observer

func (m MultiObserver) PhaseEntered(phase Phase, note string) {
	for _, o := range m {
		o.PhaseEntered(phase, note)
	}
}

func (m MultiObserver) SampleRecorded(sample PhaseSample, baseline int) {
	for _, o := range m {
		o.SampleRecorded(sample, baseline)
	}
}

func (m MultiObserver) RunFinished(run *Run) {
	for _, o := range m {
		o.RunFinished(run)
	}
}

// ConsoleObserver narrates the run for an operator at a terminal,
// color-coding each phase.
type ConsoleObserver struct{}

// PhaseEntered prints a stage banner.
func (ConsoleObserver) PhaseEntered(phase Phase, note string) {
	phaseColor(phase).Printf("\n=== %s ===\n", strings.ToUpper(string(phase)))
	if note != "" {
		fmt.Println(note)
	}
}

// SampleRecorded prints one timeline line, including recovery progress
// against the baseline once it is known.
func (ConsoleObserver) SampleRecorded(sample PhaseSample, baseline int) {
	line := fmt.Sprintf("[%s] %-14s devices=%d", sample.Timestamp.Format("15:04:05"), sample.Phase, sample.DevicesCached)
	if baseline > 0 && (sample.Phase == PhaseRecovering || sample.Phase == PhaseRecovered) {
		line += fmt.Sprintf(" (%.1f%% of baseline)", float64(sample.DevicesCached)/float64(baseline)*100)
	}
	if sample.Notes != "" {
		line += "  " + sample.Notes
	}
	phaseColor(sample.Phase).Println(line)
}

// RunFinished prints the closing summary.
func (ConsoleObserver) RunFinished(run *Run) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 48))
	fmt.Printf("Run %s finished: %s\n", run.ID, run.Outcome)
	fmt.Printf("  Baseline devices: %d\n", run.BaselineCount)
	fmt.Printf("  Samples recorded: %d\n", len(run.Samples()))
	if d := run.Downtime(); d > 0 {
		fmt.Printf("  Downtime window:  %s\n", d.Round(time.Second))
	}
	if d := run.TimeToRecovery(); d > 0 {
		fmt.Printf("  Time to recovery: %s\n", d.Round(time.Second))
	}
	fmt.Println(strings.Repeat("=", 48))
}

// phaseColor picks the narration color for a phase.
func phaseColor(p Phase) *color.Color {
	switch p {
	case PhaseBaseline:
		return color.New(color.FgCyan)
	case PhaseFailure:
		return color.New(color.FgRed, color.Bold)
	case PhaseDowntime:
		return color.New(color.FgYellow)
	case PhaseRecoveryStart, PhaseRecovering:
		return color.New(color.FgGreen)
	case PhaseRecovered:
		return color.New(color.FgGreen, color.Bold)
	case PhaseTimedOut:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}
