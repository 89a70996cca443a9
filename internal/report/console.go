// internal/report/console.go

// Package report renders analysis results for operators: a console
// table after each run and a standalone HTML dashboard on request.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/mwiater/dokimi/internal/loadtest"
)

// RenderSummaryTable prints one row per load level plus its scaling
// efficiency. The efficiency rows align with the summaries by index;
// a missing row renders as a dash.
func RenderSummaryTable(w io.Writer, summaries []loadtest.Summary, effs []loadtest.Efficiency) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Devices", "Messages", "Success %", "Avg ms", "P50 ms", "P95 ms", "P99 ms", "Msg/s", "Efficiency %"})
	table.SetAutoFormatHeaders(false)

	for i, s := range summaries {
		efficiency := "-"
		if i < len(effs) {
			efficiency = fmt.Sprintf("%.1f", effs[i].Percent)
		}
		table.Append([]string{
			strconv.Itoa(s.Devices),
			strconv.Itoa(s.TotalMessages),
			fmt.Sprintf("%.1f", s.SuccessRate),
			fmt.Sprintf("%.2f", s.AvgLatency),
			fmt.Sprintf("%.2f", s.P50Latency),
			fmt.Sprintf("%.2f", s.P95Latency),
			fmt.Sprintf("%.2f", s.P99Latency),
			fmt.Sprintf("%.2f", s.Throughput),
			efficiency,
		})
	}
	table.Render()
}
