// internal/cli/analyze.go
package dokimi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/dokimi/internal/loadtest"
	"github.com/mwiater/dokimi/internal/report"
	"github.com/mwiater/dokimi/internal/sink"
	"github.com/mwiater/dokimi/internal/util"
)

type analyzeOptions struct {
	dir          string
	pattern      string
	window       float64
	out          string
	analysisPath string
	htmlPath     string
	timelinePath string
}

var analyzeOpts analyzeOptions

// analyzeCmd reduces raw load-test batches into per-level summaries.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Reduce raw load-test batches into summary metrics",
	Long: `Discover raw result batches (CSV files of per-message publish outcomes),
reduce each to success rate, latency percentiles, and throughput, compute
scaling efficiency across load levels, and write the summary CSV. Optionally
emit the analysis as JSON and a self-contained HTML dashboard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		opts := analyzeOpts
		if !cmd.Flags().Changed("dir") {
			opts.dir = cfg.ResultsDirPath()
		}
		if !cmd.Flags().Changed("pattern") {
			opts.pattern = cfg.BatchGlob()
		}
		if !cmd.Flags().Changed("window") {
			opts.window = cfg.Window()
		}
		if !cmd.Flags().Changed("out") {
			opts.out = filepath.Join(cfg.ResultsDirPath(), "load-test-summary.csv")
		}

		batches, err := loadtest.DiscoverBatches(opts.dir, opts.pattern)
		if err != nil {
			return err
		}

		summaries, err := loadtest.ReduceAll(batches, opts.window)
		if err != nil {
			return err
		}

		effs, effErr := loadtest.ComputeEfficiency(summaries)
		if effErr != nil {
			effs = nil
		}

		report.RenderSummaryTable(cmd.OutOrStdout(), summaries, effs)

		if effErr != nil {
			return effErr
		}

		if err := sink.WriteSummaries(opts.out, summaries); err != nil {
			return err
		}
		cmd.Printf("\nSummary written to %s\n", opts.out)

		if opts.analysisPath == "" && opts.htmlPath == "" {
			return nil
		}

		analysis := report.Analysis{
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
			WindowSeconds: opts.window,
			Summaries:     summaries,
			Efficiency:    effs,
		}
		if opts.timelinePath != "" {
			timeline, err := sink.ReadTimeline(opts.timelinePath)
			if err != nil {
				return err
			}
			analysis.Timeline = timeline
		}

		if opts.analysisPath != "" {
			if err := writeAnalysisJSON(opts.analysisPath, analysis); err != nil {
				return err
			}
			cmd.Printf("Analysis JSON written to %s\n", opts.analysisPath)
		}

		if opts.htmlPath != "" {
			html, err := report.GenerateReport(analysis)
			if err != nil {
				return fmt.Errorf("failed generating HTML report: %w", err)
			}
			if err := util.WriteFile(opts.htmlPath, []byte(html)); err != nil {
				return fmt.Errorf("unable to write HTML report %s: %w", opts.htmlPath, err)
			}
			cmd.Printf("Report written to %s\n", opts.htmlPath)
		}

		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOpts.dir, "dir", "results", "directory containing raw batch CSVs")
	analyzeCmd.Flags().StringVar(&analyzeOpts.pattern, "pattern", loadtest.DefaultBatchPattern, "filename glob for batch discovery")
	analyzeCmd.Flags().Float64Var(&analyzeOpts.window, "window", loadtest.DefaultWindowSeconds, "throughput window in seconds")
	analyzeCmd.Flags().StringVar(&analyzeOpts.out, "out", "results/load-test-summary.csv", "summary CSV destination")
	analyzeCmd.Flags().StringVar(&analyzeOpts.analysisPath, "analysis-output", "", "Optional path to write the analysis JSON")
	analyzeCmd.Flags().StringVar(&analyzeOpts.htmlPath, "html-output", "", "Optional path to write the HTML dashboard")
	analyzeCmd.Flags().StringVar(&analyzeOpts.timelinePath, "recovery", "", "Optional recovery timeline CSV to embed in the report")

	rootCmd.AddCommand(analyzeCmd)
}

func writeAnalysisJSON(path string, analysis report.Analysis) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create directory for %s: %w", path, err)
		}
	}

	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal analysis JSON: %w", err)
	}

	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("unable to write analysis JSON %s: %w", path, err)
	}
	return nil
}
