// internal/loadtest/types.go

// Package loadtest reduces raw load-generator samples into per-level
// summaries and scaling-efficiency figures.
package loadtest

import "time"

// RawSample is one synthetic operation recorded by the load generator:
// a single publish attempt with its outcome and latency. Only OK and
// LatencyMS participate in reduction; the other fields ride along for
// the CSV round trip.
type RawSample struct {
	Timestamp time.Time `json:"timestamp"`
	DeviceID  string    `json:"device_id"`
	LatencyMS float64   `json:"publish_latency_ms"`
	OK        bool      `json:"success"`
}

// Batch is one discovered results file: a label taken from the file
// base name plus every sample the file contains.
type Batch struct {
	Label   string
	Samples []RawSample
}

// Summary condenses one batch into the per-level figures reported by
// the analyzer.
type Summary struct {
	Label         string  `json:"label"`
	Devices       int     `json:"devices"`
	TotalMessages int     `json:"total_messages"`
	SuccessRate   float64 `json:"success_rate"`
	AvgLatency    float64 `json:"avg_latency"`
	P50Latency    float64 `json:"p50_latency"`
	P95Latency    float64 `json:"p95_latency"`
	P99Latency    float64 `json:"p99_latency"`
	Throughput    float64 `json:"throughput"`
}

// Efficiency reports how a level's measured throughput compares with
// linear scaling extrapolated from the smallest measured level.
type Efficiency struct {
	Devices         int     `json:"devices"`
	Throughput      float64 `json:"throughput"`
	IdealThroughput float64 `json:"ideal_throughput"`
	Percent         float64 `json:"percent"`
}
