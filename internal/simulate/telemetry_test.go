// internal/simulate/telemetry_test.go
package simulate

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// TestDeviceVitalsStayInEnvelope generates a long stream from one
// device and verifies every vital lands inside the union of the
// normal and anomalous ranges, steps never decrease, and the battery
// never climbs or drains below the floor.
func TestDeviceVitalsStayInEnvelope(t *testing.T) {
	dev := newDevice(0)

	lastSteps := 0
	lastBattery := 100
	for i := 0; i < 2000; i++ {
		msg := dev.next("acme-clinic")

		v := msg.Metrics
		if v.HeartRateBPM < 60 || v.HeartRateBPM > 180 {
			t.Fatalf("iteration %d: heart rate %d out of range", i, v.HeartRateBPM)
		}
		if v.HeartRateBPM > 100 && v.HeartRateBPM < 150 {
			t.Fatalf("iteration %d: heart rate %d in the dead band between normal and anomaly", i, v.HeartRateBPM)
		}
		if v.TempC < 36.0 || v.TempC > 41.0 {
			t.Fatalf("iteration %d: temperature %.1f out of range", i, v.TempC)
		}
		if v.SpO2Pct < 80 || v.SpO2Pct > 100 {
			t.Fatalf("iteration %d: spo2 %d out of range", i, v.SpO2Pct)
		}
		if v.Steps < lastSteps {
			t.Fatalf("iteration %d: steps went backwards, %d after %d", i, v.Steps, lastSteps)
		}
		lastSteps = v.Steps

		if msg.BatteryPct > lastBattery {
			t.Fatalf("iteration %d: battery climbed, %d after %d", i, msg.BatteryPct, lastBattery)
		}
		if msg.BatteryPct < 5 {
			t.Fatalf("iteration %d: battery %d below floor", i, msg.BatteryPct)
		}
		lastBattery = msg.BatteryPct
	}
}

// TestDeviceInjectsAnomalies confirms that a long stream contains at
// least some out-of-range vitals, so the downstream anomaly detector
// has something to flag.
func TestDeviceInjectsAnomalies(t *testing.T) {
	dev := newDevice(1)

	anomalies := 0
	for i := 0; i < 2000; i++ {
		v := dev.next("acme-clinic").Metrics
		if v.HeartRateBPM >= 150 || v.TempC >= 39.0 || v.SpO2Pct <= 90 {
			anomalies++
		}
	}
	if anomalies == 0 {
		t.Fatal("expected anomalous vitals in 2000 messages, got none")
	}
	if anomalies > 600 {
		t.Fatalf("anomaly count %d far above the configured rate", anomalies)
	}
}

// TestTelemetryJSONShape checks the wire field names and the RFC3339
// timestamp the ingestion pipeline expects.
func TestTelemetryJSONShape(t *testing.T) {
	dev := newDevice(2)
	msg := dev.next("acme-clinic")

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	for _, field := range []string{
		`"tenant_id":"acme-clinic"`,
		`"device_id":"watch-0002"`,
		`"hr_bpm"`,
		`"temp_c"`,
		`"spo2_pct"`,
		`"steps"`,
		`"battery_pct"`,
		`"fw_version"`,
	} {
		if !strings.Contains(body, field) {
			t.Errorf("payload missing %s: %s", field, body)
		}
	}
	if _, err := time.Parse(time.RFC3339, msg.Timestamp); err != nil {
		t.Fatalf("timestamp %q is not RFC3339: %v", msg.Timestamp, err)
	}
}
