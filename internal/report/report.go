// internal/report/report.go
package report

import (
	"bytes"
	"encoding/json"
	"html/template"

	"github.com/mwiater/dokimi/internal/loadtest"
	"github.com/mwiater/dokimi/internal/recovery"
)

// Analysis bundles everything the HTML dashboard renders.
type Analysis struct {
	GeneratedAt   string                 `json:"generatedAt"`
	WindowSeconds float64                `json:"windowSeconds"`
	Summaries     []loadtest.Summary     `json:"summaries"`
	Efficiency    []loadtest.Efficiency  `json:"efficiency"`
	Timeline      []recovery.PhaseSample `json:"timeline,omitempty"`
}

// reportData is the template view model.
type reportData struct {
	Title        string
	AnalysisJSON template.JS
}

// GenerateReport renders a standalone HTML dashboard for one analysis
// run: throughput, latency percentiles, success rate, and scaling
// efficiency per load level, plus the recovery timeline when present.
func GenerateReport(analysis Analysis) (string, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return "", err
	}

	viewModel := reportData{
		Title:        "dokimi: Load Test Report",
		AnalysisJSON: template.JS(payload),
	}

	var buf bytes.Buffer
	if err := loadReportTemplate.Execute(&buf, viewModel); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var loadReportTemplate = template.Must(template.New("load-report").Parse(loadReportTemplateHTML))

const loadReportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --success: #10B981;
      --warning: #F59E0B;
      --danger: #EF4444;
    }
    body {
      background: var(--light);
      color: var(--text);
    }
    .report-header {
      background: var(--primary);
      color: #fff;
      padding: 1.5rem 0;
      margin-bottom: 1.5rem;
    }
    .report-header .meta {
      color: #CBD5E1;
      font-size: 0.9rem;
    }
    .card {
      border: none;
      box-shadow: 0 1px 3px rgba(15, 23, 42, 0.12);
      margin-bottom: 1.5rem;
    }
    .card-header {
      background: #fff;
      font-weight: 600;
    }
    canvas {
      max-height: 340px;
    }
    table.summary-table td,
    table.summary-table th {
      text-align: right;
    }
    table.summary-table td:first-child,
    table.summary-table th:first-child {
      text-align: left;
    }
  </style>
</head>
<body>
  <div class="report-header">
    <div class="container">
      <h1 class="h3 mb-1">{{ .Title }}</h1>
      <div class="meta">Generated <span id="generatedAt"></span> &middot; send window <span id="windowSeconds"></span>s</div>
    </div>
  </div>

  <div class="container">
    <div class="card">
      <div class="card-header">Per-level summary</div>
      <div class="card-body table-responsive">
        <table class="table table-sm summary-table" id="summaryTable">
          <thead>
            <tr>
              <th>Devices</th>
              <th>Messages</th>
              <th>Success %</th>
              <th>Avg ms</th>
              <th>P50 ms</th>
              <th>P95 ms</th>
              <th>P99 ms</th>
              <th>Msg/s</th>
              <th>Efficiency %</th>
            </tr>
          </thead>
          <tbody></tbody>
        </table>
      </div>
    </div>

    <div class="row">
      <div class="col-lg-6">
        <div class="card">
          <div class="card-header">Throughput</div>
          <div class="card-body">
            <canvas id="throughputChart" aria-label="Throughput vs device count" role="img"></canvas>
          </div>
        </div>
      </div>
      <div class="col-lg-6">
        <div class="card">
          <div class="card-header">Latency percentiles</div>
          <div class="card-body">
            <canvas id="latencyChart" aria-label="Latency percentiles vs device count" role="img"></canvas>
          </div>
        </div>
      </div>
    </div>

    <div class="row">
      <div class="col-lg-6">
        <div class="card">
          <div class="card-header">Success rate</div>
          <div class="card-body">
            <canvas id="successChart" aria-label="Success rate per device count" role="img"></canvas>
          </div>
        </div>
      </div>
      <div class="col-lg-6">
        <div class="card">
          <div class="card-header">Scaling efficiency</div>
          <div class="card-body">
            <canvas id="efficiencyChart" aria-label="Scaling efficiency vs linear ideal" role="img"></canvas>
          </div>
        </div>
      </div>
    </div>

    <div class="card d-none" id="recoveryCard">
      <div class="card-header">Recovery timeline</div>
      <div class="card-body">
        <canvas id="recoveryChart" aria-label="Cached devices across recovery phases" role="img"></canvas>
      </div>
    </div>
  </div>

  <script src="https://code.jquery.com/jquery-3.7.1.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var analysis = {{ .AnalysisJSON }};
  </script>
  <script>
    (function($) {
      function formatNumber(value, decimals) {
        if (value === null || value === undefined || isNaN(value)) {
          return '-';
        }
        return Number(value).toFixed(decimals);
      }

      var summaries = analysis && analysis.summaries ? analysis.summaries : [];
      var efficiency = analysis && analysis.efficiency ? analysis.efficiency : [];
      var timeline = analysis && analysis.timeline ? analysis.timeline : [];
      var labels = summaries.map(function(s) { return String(s.devices); });

      $('#generatedAt').text(analysis.generatedAt || '-');
      $('#windowSeconds').text(formatNumber(analysis.windowSeconds, 0));

      function renderSummaryTable() {
        var $tbody = $('#summaryTable tbody');
        summaries.forEach(function(s, i) {
          var eff = i < efficiency.length ? formatNumber(efficiency[i].percent, 1) : '-';
          var $tr = $('<tr></tr>');
          $tr.append($('<td></td>').text(s.devices));
          $tr.append($('<td></td>').text(s.total_messages));
          $tr.append($('<td></td>').text(formatNumber(s.success_rate, 1)));
          $tr.append($('<td></td>').text(formatNumber(s.avg_latency, 2)));
          $tr.append($('<td></td>').text(formatNumber(s.p50_latency, 2)));
          $tr.append($('<td></td>').text(formatNumber(s.p95_latency, 2)));
          $tr.append($('<td></td>').text(formatNumber(s.p99_latency, 2)));
          $tr.append($('<td></td>').text(formatNumber(s.throughput, 2)));
          $tr.append($('<td></td>').text(eff));
          $tbody.append($tr);
        });
      }

      function renderThroughputChart() {
        new Chart(document.getElementById('throughputChart'), {
          type: 'line',
          data: {
            labels: labels,
            datasets: [{
              label: 'Measured msg/s',
              data: summaries.map(function(s) { return s.throughput; }),
              borderColor: '#3B82F6',
              backgroundColor: 'rgba(59, 130, 246, 0.15)',
              fill: true,
              tension: 0.2
            }]
          },
          options: { scales: { y: { beginAtZero: true } } }
        });
      }

      function renderLatencyChart() {
        new Chart(document.getElementById('latencyChart'), {
          type: 'line',
          data: {
            labels: labels,
            datasets: [
              { label: 'p50 ms', data: summaries.map(function(s) { return s.p50_latency; }), borderColor: '#10B981', tension: 0.2 },
              { label: 'p95 ms', data: summaries.map(function(s) { return s.p95_latency; }), borderColor: '#F59E0B', tension: 0.2 },
              { label: 'p99 ms', data: summaries.map(function(s) { return s.p99_latency; }), borderColor: '#EF4444', tension: 0.2 }
            ]
          },
          options: { scales: { y: { beginAtZero: true } } }
        });
      }

      function renderSuccessChart() {
        new Chart(document.getElementById('successChart'), {
          type: 'bar',
          data: {
            labels: labels,
            datasets: [{
              label: 'Success %',
              data: summaries.map(function(s) { return s.success_rate; }),
              backgroundColor: '#10B981'
            }]
          },
          options: { scales: { y: { suggestedMin: 90, suggestedMax: 100 } } }
        });
      }

      function renderEfficiencyChart() {
        new Chart(document.getElementById('efficiencyChart'), {
          type: 'line',
          data: {
            labels: efficiency.map(function(e) { return String(e.devices); }),
            datasets: [
              {
                label: 'Measured %',
                data: efficiency.map(function(e) { return e.percent; }),
                borderColor: '#3B82F6',
                tension: 0.2
              },
              {
                label: 'Linear ideal',
                data: efficiency.map(function() { return 100; }),
                borderColor: '#64748B',
                borderDash: [6, 4],
                pointRadius: 0
              }
            ]
          },
          options: { scales: { y: { beginAtZero: true } } }
        });
      }

      var phaseColors = {
        baseline: '#3B82F6',
        failure: '#EF4444',
        downtime: '#F59E0B',
        recovery_start: '#8B5CF6',
        recovering: '#10B981',
        recovered: '#059669',
        timed_out: '#B91C1C'
      };

      function renderRecoveryChart() {
        if (!timeline.length) {
          return;
        }
        $('#recoveryCard').removeClass('d-none');
        new Chart(document.getElementById('recoveryChart'), {
          type: 'line',
          data: {
            labels: timeline.map(function(s) { return s.timestamp; }),
            datasets: [{
              label: 'Devices cached',
              data: timeline.map(function(s) { return s.devices_cached; }),
              borderColor: '#334155',
              pointBackgroundColor: timeline.map(function(s) { return phaseColors[s.phase] || '#64748B'; }),
              pointRadius: 5,
              tension: 0.1
            }]
          },
          options: { scales: { y: { beginAtZero: true } } }
        });
      }

      renderSummaryTable();
      renderThroughputChart();
      renderLatencyChart();
      renderSuccessChart();
      renderEfficiencyChart();
      renderRecoveryChart();
    })(jQuery);
  </script>
</body>
</html>
`
