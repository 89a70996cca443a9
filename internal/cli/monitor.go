// internal/cli/monitor.go
package dokimi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/dokimi/internal/logging"
	"github.com/mwiater/dokimi/internal/oracle"
	"github.com/mwiater/dokimi/internal/recovery"
	"github.com/mwiater/dokimi/internal/sink"
	"github.com/mwiater/dokimi/internal/tui"
)

type monitorOptions struct {
	redisAddr     string
	redisPassword string
	redisDB       int
	pattern       string
	out           string
	settle        time.Duration
	poll          time.Duration
	downtimePolls int
	recoveryPolls int
	useTUI        bool
	dryRun        bool
}

var monitorOpts monitorOptions

// monitorCmd walks a cache-recovery experiment through its phases:
// settle, baseline, operator-confirmed failure, downtime observation,
// operator-confirmed restart, and the recovery watch.
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run a consumer-failure recovery experiment",
	Long: `Observe the pipeline's liveness cache through a consumer kill and
restart. The run settles, samples a baseline device count, then prompts you
to kill the consumer, records the downtime window, prompts you to restart
it, and watches the cache until it returns to baseline or the recovery
window is exhausted. The phase timeline is written as CSV.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		opts := monitorOpts
		if !cmd.Flags().Changed("redis-addr") {
			opts.redisAddr = cfg.RedisAddress()
		}
		if !cmd.Flags().Changed("redis-db") {
			opts.redisDB = cfg.RedisDB
		}
		if !cmd.Flags().Changed("pattern") {
			opts.pattern = cfg.KeyPattern()
		}
		if !cmd.Flags().Changed("out") {
			opts.out = filepath.Join(cfg.ResultsDirPath(), "recovery-test-results.csv")
		}
		if !cmd.Flags().Changed("settle") {
			opts.settle = cfg.SettleDelay()
		}
		if !cmd.Flags().Changed("poll") {
			opts.poll = cfg.PollInterval()
		}
		if !cmd.Flags().Changed("downtime-polls") {
			opts.downtimePolls = cfg.DowntimePollCount()
		}
		if !cmd.Flags().Changed("recovery-polls") {
			opts.recoveryPolls = cfg.RecoveryPollCount()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := sink.EnsureDir(opts.out); err != nil {
			return err
		}

		mon := &recovery.Monitor{
			Plan: recovery.Plan{
				SettleDelay:   opts.settle,
				PollInterval:  opts.poll,
				DowntimePolls: opts.downtimePolls,
				RecoveryPolls: opts.recoveryPolls,
			},
		}

		if opts.dryRun {
			mon.Oracle = dryRunScript()
			mon.FailureGate = recovery.ReleasedGate{}
			mon.RecoveryGate = recovery.ReleasedGate{}
			mon.Plan = recovery.Plan{
				SettleDelay:   0,
				PollInterval:  50 * time.Millisecond,
				DowntimePolls: 3,
				RecoveryPolls: 5,
			}
		} else {
			redisOracle := oracle.NewRedis(opts.redisAddr, opts.redisPassword, opts.redisDB, opts.pattern)
			defer redisOracle.Close()
			if _, err := redisOracle.LiveCount(ctx); err != nil {
				return fmt.Errorf("oracle probe failed for %s: %w", opts.redisAddr, err)
			}
			mon.Oracle = redisOracle
			mon.FailureGate = &recovery.StdinGate{Prompt: "Kill the consumer, then press enter"}
			mon.RecoveryGate = &recovery.StdinGate{Prompt: "Restart the consumer, then press enter"}
		}

		var (
			run *recovery.Run
			err error
		)
		if opts.useTUI && !opts.dryRun {
			mon.Observer = logObserver{}
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			run, err = tui.RunMonitor(runCtx, cancel, mon)
		} else {
			mon.Observer = recovery.MultiObserver{recovery.ConsoleObserver{}, logObserver{}}
			run, err = mon.Run(ctx)
		}

		switch {
		case err == nil:
			if werr := sink.WriteTimeline(opts.out, run.Samples()); werr != nil {
				return werr
			}
			cmd.Printf("\nTimeline written to %s\n", opts.out)
			if run.Outcome == recovery.OutcomeTimedOut {
				cmd.Println("Recovery window exhausted before the cache returned to baseline.")
			}
			return nil

		case errors.Is(err, recovery.ErrInterrupted):
			partial := sink.PartialPath(opts.out)
			if werr := sink.WriteTimeline(partial, run.Samples()); werr != nil {
				return werr
			}
			cmd.Printf("\nRun interrupted; partial timeline written to %s\n", partial)
			return nil

		default:
			if run != nil && len(run.Samples()) > 0 {
				partial := sink.PartialPath(opts.out)
				if werr := sink.WriteTimeline(partial, run.Samples()); werr == nil {
					cmd.Printf("\nPartial timeline written to %s\n", partial)
				}
			}
			return err
		}
	},
}

func init() {
	monitorCmd.Flags().StringVar(&monitorOpts.redisAddr, "redis-addr", "localhost:6379", "Redis address of the liveness cache")
	monitorCmd.Flags().StringVar(&monitorOpts.redisPassword, "redis-password", "", "Redis password, if any")
	monitorCmd.Flags().IntVar(&monitorOpts.redisDB, "redis-db", 0, "Redis database index")
	monitorCmd.Flags().StringVar(&monitorOpts.pattern, "pattern", oracle.DefaultPattern, "key pattern counted as live devices")
	monitorCmd.Flags().StringVar(&monitorOpts.out, "out", "results/recovery-test-results.csv", "timeline CSV destination")
	monitorCmd.Flags().DurationVar(&monitorOpts.settle, "settle", recovery.DefaultSettleDelay, "settle delay before the baseline sample")
	monitorCmd.Flags().DurationVar(&monitorOpts.poll, "poll", recovery.DefaultPollInterval, "interval between cache polls")
	monitorCmd.Flags().IntVar(&monitorOpts.downtimePolls, "downtime-polls", recovery.DefaultDowntimePolls, "polls recorded while the consumer is down")
	monitorCmd.Flags().IntVar(&monitorOpts.recoveryPolls, "recovery-polls", recovery.DefaultRecoveryPolls, "maximum polls in the recovery watch")
	monitorCmd.Flags().BoolVar(&monitorOpts.useTUI, "tui", false, "render the run in an interactive terminal UI")
	monitorCmd.Flags().BoolVar(&monitorOpts.dryRun, "dry-run", false, "replay a scripted cache instead of querying Redis")

	rootCmd.AddCommand(monitorCmd)
}

// dryRunScript replays a plausible cache trace: a stable baseline, a
// drained cache during downtime, and a staged climb back past baseline.
func dryRunScript() *oracle.Static {
	return oracle.NewStatic(20, 20, 0, 0, 0, 0, 5, 12, 20)
}

// logObserver mirrors run progress into the application log.
type logObserver struct{}

func (logObserver) PhaseEntered(phase recovery.Phase, note string) {
	logging.LogEvent("=== %s %s", strings.ToUpper(string(phase)), note)
}

func (logObserver) SampleRecorded(sample recovery.PhaseSample, baseline int) {
	logging.LogPhase(string(sample.Phase), sample.DevicesCached, sample.Notes)
}

func (logObserver) RunFinished(run *recovery.Run) {
	logging.LogEvent("run %s finished: outcome=%s baseline=%d downtime=%s time_to_recovery=%s",
		run.ID, run.Outcome, run.BaselineCount, run.Downtime().Round(time.Second), run.TimeToRecovery().Round(time.Second))
}
