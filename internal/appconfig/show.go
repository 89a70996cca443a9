package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Redis:           %s (db %d)\n", cfg.RedisAddress(), cfg.RedisDB)
	fmt.Fprintf(out, "  Key Pattern:     %s\n", cfg.KeyPattern())
	fmt.Fprintf(out, "  Results Dir:     %s\n", cfg.ResultsDirPath())
	fmt.Fprintf(out, "  Batch Pattern:   %s\n", cfg.BatchGlob())
	fmt.Fprintf(out, "  Window:          %.0fs\n", cfg.Window())
	fmt.Fprintf(out, "  Settle Delay:    %s\n", cfg.SettleDelay())
	fmt.Fprintf(out, "  Poll Interval:   %s\n", cfg.PollInterval())
	fmt.Fprintf(out, "  Downtime Polls:  %d\n", cfg.DowntimePollCount())
	fmt.Fprintf(out, "  Recovery Polls:  %d\n", cfg.RecoveryPollCount())
	fmt.Fprintf(out, "  Broker:          %s\n", cfg.BrokerURL())
	fmt.Fprintf(out, "  Tenant:          %s\n", cfg.TenantID())
	fmt.Fprintf(out, "  Devices:         %d\n", cfg.DeviceCount())
	fmt.Fprintf(out, "  Publish Every:   %s\n", cfg.PublishInterval())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
}
