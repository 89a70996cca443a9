// internal/cli/simulate.go
package dokimi

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/dokimi/internal/simulate"
	"github.com/mwiater/dokimi/internal/sink"
)

type simulateOptions struct {
	broker   string
	tenant   string
	devices  int
	interval time.Duration
	duration time.Duration
	out      string
}

var simulateOpts simulateOptions

// simulateCmd drives a synthetic device fleet against the MQTT broker.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Publish synthetic wearable telemetry to the MQTT broker",
	Long: `Run a fleet of simulated wearable devices that publish vitals telemetry
to the broker on a fixed interval. Each device tracks publish latency and
success, and the run's raw samples are written as a batch CSV that the
analyze command can discover.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		opts := simulateOpts
		if !cmd.Flags().Changed("broker") {
			opts.broker = cfg.BrokerURL()
		}
		if !cmd.Flags().Changed("tenant") {
			opts.tenant = cfg.TenantID()
		}
		if !cmd.Flags().Changed("devices") {
			opts.devices = cfg.DeviceCount()
		}
		if !cmd.Flags().Changed("interval") {
			opts.interval = cfg.PublishInterval()
		}
		if !cmd.Flags().Changed("out") {
			opts.out = filepath.Join(cfg.ResultsDirPath(), fmt.Sprintf("test%d.csv", opts.devices))
		}

		if opts.out != "" {
			if err := sink.EnsureDir(opts.out); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fleet := simulate.NewFleet(simulate.Options{
			Broker:   opts.broker,
			Tenant:   opts.tenant,
			Devices:  opts.devices,
			Interval: opts.interval,
			Duration: opts.duration,
			Out:      opts.out,
		})

		cmd.Printf("Simulating %d devices for tenant %s against %s (interval %s)\n",
			opts.devices, opts.tenant, opts.broker, opts.interval)
		if opts.duration > 0 {
			cmd.Printf("Run duration: %s\n", opts.duration)
		} else {
			cmd.Println("Run duration: until interrupted (ctrl+c)")
		}

		if err := fleet.Run(ctx); err != nil {
			return err
		}

		snap := fleet.Tracker().Snapshot()
		cmd.Printf("\nFleet run complete: sent=%d success=%.1f%% avg=%.1fms p95=%.1fms rate=%.2f msg/s\n",
			snap.Sent, snap.SuccessRate, snap.AvgLatencyMS, snap.P95LatencyMS, snap.Throughput)
		if opts.out != "" {
			cmd.Printf("Raw samples written to %s\n", opts.out)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateOpts.broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	simulateCmd.Flags().StringVar(&simulateOpts.tenant, "tenant", "acme-clinic", "tenant ID to publish under")
	simulateCmd.Flags().IntVar(&simulateOpts.devices, "devices", 5, "number of simulated devices")
	simulateCmd.Flags().DurationVar(&simulateOpts.interval, "interval", 2*time.Second, "publish interval per device")
	simulateCmd.Flags().DurationVar(&simulateOpts.duration, "duration", 0, "total run duration (0 runs until interrupted)")
	simulateCmd.Flags().StringVar(&simulateOpts.out, "out", "", "raw sample CSV destination (default results/test<devices>.csv)")

	rootCmd.AddCommand(simulateCmd)
}
