// internal/simulate/fleet.go
package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mwiater/dokimi/internal/logging"
	"github.com/mwiater/dokimi/internal/sink"
)

const publishTimeout = 5 * time.Second

// Options configure a simulated fleet run.
type Options struct {
	Broker   string
	Tenant   string
	Devices  int
	Interval time.Duration
	Duration time.Duration // zero runs until the context is canceled
	Out      string        // raw sample CSV path, empty skips the write
}

// Fleet drives a set of synthetic devices against an MQTT broker and
// records one raw sample per publish attempt.
type Fleet struct {
	opts    Options
	tracker *Tracker
}

// NewFleet builds a fleet. Zero device counts and intervals fall back
// to a small five-device, two-second cadence.
func NewFleet(opts Options) *Fleet {
	if opts.Devices <= 0 {
		opts.Devices = 5
	}
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	return &Fleet{opts: opts, tracker: NewTracker()}
}

// Tracker exposes the fleet's accumulating statistics.
func (f *Fleet) Tracker() *Tracker {
	return f.tracker
}

// Run connects to the broker, publishes from every device until the
// configured duration elapses or ctx is canceled, then flushes the
// recorded samples to the output CSV.
func (f *Fleet) Run(ctx context.Context) error {
	if f.opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Duration)
		defer cancel()
	}

	connOpts := mqtt.NewClientOptions().
		AddBroker(f.opts.Broker).
		SetClientID(fmt.Sprintf("dokimi-sim-%d", time.Now().UnixNano())).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)
	client := mqtt.NewClient(connOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", f.opts.Broker, token.Error())
	}
	defer client.Disconnect(250)

	logging.LogEvent("[SIM] %d devices publishing to %s every %s", f.opts.Devices, f.opts.Broker, f.opts.Interval)

	var wg sync.WaitGroup
	for i := 0; i < f.opts.Devices; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			f.runDevice(ctx, client, n)
		}(i)
	}

	reporterDone := make(chan struct{})
	go f.report(ctx, reporterDone)

	wg.Wait()
	<-reporterDone

	if f.opts.Out != "" {
		samples := f.tracker.Samples()
		if err := sink.WriteRawSamples(f.opts.Out, samples); err != nil {
			return err
		}
		logging.LogEvent("[SIM] wrote %d samples to %s", len(samples), f.opts.Out)
	}
	return nil
}

// runDevice publishes telemetry for one device until ctx ends.
func (f *Fleet) runDevice(ctx context.Context, client mqtt.Client, n int) {
	dev := newDevice(n)
	topic := fmt.Sprintf("tenants/%s/devices/%s/telemetry", f.opts.Tenant, dev.id)
	ticker := time.NewTicker(f.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			payload, err := json.Marshal(dev.next(f.opts.Tenant))
			if err != nil {
				f.tracker.Record(dev.id, 0, false)
				continue
			}
			start := time.Now()
			token := client.Publish(topic, 1, false, payload)
			ok := token.WaitTimeout(publishTimeout) && token.Error() == nil
			f.tracker.Record(dev.id, time.Since(start), ok)
		}
	}
}

// report logs a fleet statistics line every ten seconds.
func (f *Fleet) report(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := f.tracker.Snapshot()
			logging.LogEvent("[SIM] sent=%d success=%.1f%% avg=%.1fms p95=%.1fms rate=%.2f msg/s",
				snap.Sent, snap.SuccessRate, snap.AvgLatencyMS, snap.P95LatencyMS, snap.Throughput)
		}
	}
}
