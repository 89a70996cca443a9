// internal/sink/csv.go

// Package sink persists run artifacts as CSV files with pinned column
// orders, so downstream tooling can rely on the schemas.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mwiater/dokimi/internal/loadtest"
	"github.com/mwiater/dokimi/internal/recovery"
	"github.com/mwiater/dokimi/internal/util"
)

var (
	summaryHeader  = []string{"devices", "total_messages", "success_rate", "avg_latency", "p50_latency", "p95_latency", "p99_latency", "throughput"}
	timelineHeader = []string{"timestamp", "phase", "devices_cached", "notes"}
	rawHeader      = []string{"timestamp", "device_id", "publish_latency_ms", "success"}
)

// WriteSummaries writes one row per summary, in the order given.
func WriteSummaries(path string, summaries []loadtest.Summary) error {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Devices),
			strconv.Itoa(s.TotalMessages),
			formatFloat(s.SuccessRate),
			formatFloat(s.AvgLatency),
			formatFloat(s.P50Latency),
			formatFloat(s.P95Latency),
			formatFloat(s.P99Latency),
			formatFloat(s.Throughput),
		})
	}
	return writeCSV(path, summaryHeader, rows)
}

// WriteTimeline writes one row per phase sample, in insertion order,
// with RFC3339 timestamps.
func WriteTimeline(path string, samples []recovery.PhaseSample) error {
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{
			s.Timestamp.Format(time.RFC3339),
			string(s.Phase),
			strconv.Itoa(s.DevicesCached),
			s.Notes,
		})
	}
	return writeCSV(path, timelineHeader, rows)
}

// WriteRawSamples writes generator output in the batch column order
// the analyzer loads, success flagged as 1 or 0.
func WriteRawSamples(path string, samples []loadtest.RawSample) error {
	rows := make([][]string, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, []string{
			s.Timestamp.Format(time.RFC3339),
			s.DeviceID,
			strconv.FormatFloat(s.LatencyMS, 'f', -1, 64),
			strconv.Itoa(util.BoolToInt(s.OK)),
		})
	}
	return writeCSV(path, rawHeader, rows)
}

// ReadTimeline loads a previously written timeline artifact, for
// report rendering.
func ReadTimeline(path string) ([]recovery.PhaseSample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open timeline %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	if strings.Join(header, ",") != strings.Join(timelineHeader, ",") {
		return nil, fmt.Errorf("timeline %s: unexpected header %q", path, strings.Join(header, ","))
	}

	var samples []recovery.PhaseSample
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("timeline %s line %d: %w", path, line, err)
		}
		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("timeline %s line %d: bad timestamp %q", path, line, record[0])
		}
		devices, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("timeline %s line %d: bad devices_cached %q", path, line, record[2])
		}
		samples = append(samples, recovery.PhaseSample{
			Timestamp:     ts,
			Phase:         recovery.Phase(record[1]),
			DevicesCached: devices,
			Notes:         record[3],
		})
	}
	return samples, nil
}

// PartialPath derives the artifact name used when a run stops early.
func PartialPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-partial" + ext
}

// EnsureDir creates the artifact's directory and probes that it is
// writable, so runs fail before any work happens rather than after.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create results dir %s: %w", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("results dir %s not writable: %w", dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// writeCSV creates path (and its directory) and writes the header plus
// rows, truncating any previous artifact.
func writeCSV(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create results dir %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row to %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// formatFloat renders summary figures with two decimals, the artifact
// format downstream tooling parses.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
