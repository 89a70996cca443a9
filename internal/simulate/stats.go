// internal/simulate/stats.go
package simulate

import "math"

// RunningStat tracks count, min, max, mean, and variance of a value
// stream with Welford's online algorithm, so the periodic reporter
// never has to re-scan recorded samples.
type RunningStat struct {
	Count int64
	Min   float64
	Max   float64
	Mean  float64
	m2    float64
}

// Push folds one value into the running statistics.
func (rs *RunningStat) Push(value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}
	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	rs.m2 += delta * (value - rs.Mean)
}

// StdDev returns the population standard deviation seen so far.
func (rs *RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.m2 / float64(rs.Count))
}
