// internal/tui/monitor.go
// Package tui provides the interactive terminal UI for live recovery runs.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/dokimi/internal/recovery"
	"github.com/mwiater/dokimi/internal/util"
)

// activityLines is how many recent samples the log pane keeps visible.
const activityLines = 12

// gateMsg asks the user to confirm a manual step. Closing release lets
// the monitor goroutine continue.
type gateMsg struct {
	prompt  string
	release chan struct{}
}

// phaseMsg is sent when the monitor enters a new phase.
type phaseMsg struct {
	phase recovery.Phase
	note  string
}

// sampleMsg is sent for every recorded phase sample.
type sampleMsg struct {
	sample   recovery.PhaseSample
	baseline int
}

// runDoneMsg carries the finished run out of the monitor goroutine.
type runDoneMsg struct {
	run *recovery.Run
	err error
}

// tickMsg drives the elapsed-time display.
type tickMsg time.Time

// teaGate implements recovery.Gate by asking the UI for confirmation.
type teaGate struct {
	program *tea.Program
	prompt  string
}

// Wait blocks until the user confirms in the UI or ctx is canceled.
func (g *teaGate) Wait(ctx context.Context) error {
	release := make(chan struct{})
	g.program.Send(gateMsg{prompt: g.prompt, release: release})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-release:
		return nil
	}
}

// teaObserver forwards monitor events into the Bubble Tea program.
type teaObserver struct {
	program *tea.Program
}

func (o *teaObserver) PhaseEntered(phase recovery.Phase, note string) {
	o.program.Send(phaseMsg{phase: phase, note: note})
}

func (o *teaObserver) SampleRecorded(sample recovery.PhaseSample, baseline int) {
	o.program.Send(sampleMsg{sample: sample, baseline: baseline})
}

func (o *teaObserver) RunFinished(run *recovery.Run) {}

// model is the Bubble Tea model for a live recovery run.
type model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	monitor *recovery.Monitor
	program *tea.Program

	phase    recovery.Phase
	baseline int
	current  int
	activity []string
	prompt   string
	release  chan struct{}

	run    *recovery.Run
	runErr error
	done   bool

	spinner       spinner.Model
	progress      progress.Model
	width, height int
	startTime     time.Time
}

// initialModel creates and initializes a new model with default values.
func initialModel(ctx context.Context, cancel context.CancelFunc, mon *recovery.Monitor) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &model{
		ctx:       ctx,
		cancel:    cancel,
		monitor:   mon,
		phase:     recovery.PhaseBaseline,
		spinner:   s,
		progress:  prog,
		startTime: time.Now(),
	}
}

// runMonitorCmd starts the monitor in its own goroutine and reports
// the result back through the program.
func runMonitorCmd(ctx context.Context, mon *recovery.Monitor, p *tea.Program) tea.Cmd {
	return func() tea.Msg {
		go func() {
			run, err := mon.Run(ctx)
			p.Send(runDoneMsg{run: run, err: err})
		}()
		return nil
	}
}

// tickCmd creates a Bubble Tea command that sends a tickMsg at a regular interval.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the spinner, the elapsed-time ticker, and the monitor itself.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd(), runMonitorCmd(m.ctx, m.monitor, m.program))
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancel()
			return m, nil
		case "enter":
			if m.release != nil {
				close(m.release)
				m.release = nil
				m.prompt = ""
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if w := msg.Width - 24; w > 10 {
			m.progress.Width = w
		}

	case gateMsg:
		m.prompt = msg.prompt
		m.release = msg.release
		return m, nil

	case phaseMsg:
		m.phase = msg.phase
		if msg.note != "" {
			m.pushActivity(fmt.Sprintf("--- %s: %s", msg.phase, msg.note))
		} else {
			m.pushActivity(fmt.Sprintf("--- %s", msg.phase))
		}
		return m, nil

	case sampleMsg:
		m.baseline = msg.baseline
		m.current = msg.sample.DevicesCached
		line := fmt.Sprintf("[%s] %-14s devices=%d", msg.sample.Timestamp.Format("15:04:05"), msg.sample.Phase, msg.sample.DevicesCached)
		if msg.sample.Notes != "" {
			line += " " + msg.sample.Notes
		}
		m.pushActivity(line)
		return m, nil

	case runDoneMsg:
		m.run = msg.run
		m.runErr = msg.err
		m.done = true
		return m, tea.Quit

	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()
	}

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// pushActivity appends a log line, keeping only the newest entries.
func (m *model) pushActivity(line string) {
	m.activity = append(m.activity, line)
	if len(m.activity) > activityLines {
		m.activity = m.activity[len(m.activity)-activityLines:]
	}
}

// View renders the live run: a phase header, the cache progress bar,
// any pending confirmation prompt, and the recent sample log.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var builder strings.Builder

	titleStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	phaseStyle := lipgloss.NewStyle().Background(phaseBadgeColor(m.phase)).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	elapsedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).MarginLeft(1)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("Recovery Monitor"),
		phaseStyle.Render(string(m.phase)),
		elapsedStyle.Render(fmt.Sprintf("%.0fs elapsed", time.Since(m.startTime).Seconds())),
	)
	builder.WriteString(header + "\n\n")

	if m.baseline > 0 {
		pct := float64(m.current) / float64(m.baseline)
		if pct > 1 {
			pct = 1
		}
		builder.WriteString(fmt.Sprintf(" Cache: %d / %d baseline\n %s\n\n", m.current, m.baseline, m.progress.ViewAs(pct)))
	} else {
		builder.WriteString(fmt.Sprintf("\n  %s Waiting for baseline...\n\n", m.spinner.View()))
	}

	if m.prompt != "" {
		promptStyle := lipgloss.NewStyle().Background(lipgloss.Color("11")).Foreground(lipgloss.Color("0")).Padding(0, 1).Bold(true)
		builder.WriteString(promptStyle.Render(fmt.Sprintf(">>> %s (press enter)", m.prompt)) + "\n\n")
	}

	logStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	for _, line := range m.activity {
		if m.width > 4 {
			line = util.TruncateRunes(line, m.width-2)
		}
		builder.WriteString(logStyle.Render(" "+line) + "\n")
	}

	help := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("\n (enter to confirm a step, q to abort)")
	builder.WriteString(help)

	return builder.String()
}

// phaseBadgeColor maps phases to badge backgrounds, mirroring the
// plain-console color scheme.
func phaseBadgeColor(phase recovery.Phase) lipgloss.Color {
	switch phase {
	case recovery.PhaseFailure, recovery.PhaseTimedOut:
		return lipgloss.Color("9")
	case recovery.PhaseDowntime:
		return lipgloss.Color("11")
	case recovery.PhaseRecoveryStart, recovery.PhaseRecovering:
		return lipgloss.Color("10")
	case recovery.PhaseRecovered:
		return lipgloss.Color("40")
	default:
		return lipgloss.Color("14")
	}
}

// RunMonitor drives mon through the Bubble Tea UI, wiring its gates
// and observer to interactive prompts. It returns whatever the
// monitor itself returned; canceling with q surfaces the monitor's
// interrupt error.
func RunMonitor(ctx context.Context, cancel context.CancelFunc, mon *recovery.Monitor) (*recovery.Run, error) {
	m := initialModel(ctx, cancel, mon)

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.program = p

	mon.FailureGate = &teaGate{program: p, prompt: "Kill the consumer now"}
	mon.RecoveryGate = &teaGate{program: p, prompt: "Restart the consumer now"}
	observer := recovery.Observer(&teaObserver{program: p})
	if mon.Observer != nil {
		observer = recovery.MultiObserver{mon.Observer, observer}
	}
	mon.Observer = observer

	if _, err := p.Run(); err != nil {
		cancel()
		return nil, fmt.Errorf("monitor UI failed: %w", err)
	}
	return m.run, m.runErr
}
