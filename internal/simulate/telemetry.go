// internal/simulate/telemetry.go

// Package simulate drives a synthetic wearable fleet against the
// pipeline's MQTT broker, producing the raw result batches the
// analyzer reduces.
package simulate

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Vitals is the metrics block of one telemetry message.
type Vitals struct {
	HeartRateBPM int     `json:"hr_bpm"`
	TempC        float64 `json:"temp_c"`
	SpO2Pct      int     `json:"spo2_pct"`
	Steps        int     `json:"steps"`
}

// Telemetry is one device publish payload.
type Telemetry struct {
	TenantID   string `json:"tenant_id"`
	DeviceID   string `json:"device_id"`
	Timestamp  string `json:"ts"`
	Metrics    Vitals `json:"metrics"`
	BatteryPct int    `json:"battery_pct"`
	FWVersion  string `json:"fw_version"`
}

const firmwareVersion = "1.4.2"

// anomalyRate is the fraction of messages carrying an out-of-range
// vital: a tachycardic burst, a fever, or a desaturation.
const anomalyRate = 0.1

// device holds the evolving state of one synthetic wearable.
type device struct {
	id      string
	steps   int
	battery float64
	rng     *rand.Rand
}

// newDevice seeds device n with its own generator so devices do not
// publish identical streams.
func newDevice(n int) *device {
	return &device{
		id:      fmt.Sprintf("watch-%04d", n),
		battery: 100,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano() + int64(n))),
	}
}

// next produces the device's next payload. Steps only climb and the
// battery only drains.
func (d *device) next(tenant string) Telemetry {
	d.steps += d.rng.Intn(50)
	vitals := Vitals{
		HeartRateBPM: 60 + d.rng.Intn(41),
		TempC:        roundTenth(36.0 + d.rng.Float64()*1.5),
		SpO2Pct:      95 + d.rng.Intn(6),
		Steps:        d.steps,
	}

	if d.rng.Float64() < anomalyRate {
		switch d.rng.Intn(3) {
		case 0:
			vitals.HeartRateBPM = 150 + d.rng.Intn(31)
		case 1:
			vitals.TempC = roundTenth(39.0 + d.rng.Float64()*2.0)
		default:
			vitals.SpO2Pct = 80 + d.rng.Intn(11)
		}
	}

	d.battery -= d.rng.Float64() * 0.1
	if d.battery < 5 {
		d.battery = 5
	}

	return Telemetry{
		TenantID:   tenant,
		DeviceID:   d.id,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Metrics:    vitals,
		BatteryPct: int(d.battery),
		FWVersion:  firmwareVersion,
	}
}

// roundTenth keeps temperatures to one decimal place.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
