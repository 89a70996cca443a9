// internal/loadtest/batch.go
package loadtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultBatchPattern matches the results files the load generator
// leaves behind, one file per load level.
const DefaultBatchPattern = "test*.csv"

// DiscoverBatches loads every results file under dir whose base name
// matches pattern (filepath.Match syntax), in lexical file-name order.
// Matching nothing returns ErrNoBatches.
func DiscoverBatches(dir, pattern string) ([]Batch, error) {
	if pattern == "" {
		pattern = DefaultBatchPattern
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad batch pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %q under %s", ErrNoBatches, pattern, dir)
	}
	sort.Strings(matches)

	batches := make([]Batch, 0, len(matches))
	for _, path := range matches {
		b, err := LoadBatch(path)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, nil
}

// LoadBatch reads one generator results file. Columns are located by
// header name so column order does not matter; success and
// publish_latency_ms are required, timestamp and device_id ride along
// when present. Malformed rows abort the load with the line number.
func LoadBatch(path string) (Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return Batch{}, fmt.Errorf("open batch %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return Batch{}, fmt.Errorf("read header of %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	successIdx, ok := cols["success"]
	if !ok {
		return Batch{}, fmt.Errorf("batch %s: missing success column", path)
	}
	latencyIdx, ok := cols["publish_latency_ms"]
	if !ok {
		return Batch{}, fmt.Errorf("batch %s: missing publish_latency_ms column", path)
	}
	timestampIdx, hasTimestamp := cols["timestamp"]
	deviceIdx, hasDevice := cols["device_id"]

	batch := Batch{Label: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Batch{}, fmt.Errorf("batch %s line %d: %w", path, line, err)
		}

		var sample RawSample
		sample.OK, err = parseSuccess(record[successIdx])
		if err != nil {
			return Batch{}, fmt.Errorf("batch %s line %d: %w", path, line, err)
		}
		sample.LatencyMS, err = strconv.ParseFloat(strings.TrimSpace(record[latencyIdx]), 64)
		if err != nil {
			return Batch{}, fmt.Errorf("batch %s line %d: bad publish_latency_ms %q", path, line, record[latencyIdx])
		}
		if hasTimestamp {
			raw := strings.TrimSpace(record[timestampIdx])
			if raw != "" {
				sample.Timestamp, err = time.Parse(time.RFC3339, raw)
				if err != nil {
					return Batch{}, fmt.Errorf("batch %s line %d: bad timestamp %q", path, line, raw)
				}
			}
		}
		if hasDevice {
			sample.DeviceID = record[deviceIdx]
		}
		batch.Samples = append(batch.Samples, sample)
	}
	return batch, nil
}

// parseSuccess accepts the generator's 1/0 flags plus true/false.
func parseSuccess(raw string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("bad success value %q", raw)
	}
}
