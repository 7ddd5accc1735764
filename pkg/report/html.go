package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"digital.vasic.harness/pkg/scenario"
)

// HTMLReporter generates HTML reports from scenario results.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport creates an HTML report for a single scenario
// result.
func (r *HTMLReporter) GenerateReport(
	result *scenario.Result,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	result *scenario.Result,
) error {
	r.writeHeader(w, "Scenario Report: "+result.ScenarioName)

	fmt.Fprintf(
		w,
		"<h1>Scenario Report: %s</h1>\n",
		html.EscapeString(result.ScenarioName),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Scenario ID:</strong> %s</p>\n",
		html.EscapeString(string(result.ScenarioID)),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Generated:</strong> %s</p>\n",
		result.EndTime.Format(time.RFC3339),
	)

	r.writeSummaryTable(w, result)
	r.writeVerdictSection(w, result)
	r.writeArtifactsSection(w, result)

	r.writeFooter(w)
	return nil
}

func (r *HTMLReporter) writeSummaryTable(
	w io.Writer,
	result *scenario.Result,
) {
	statusClass := "status-passed"
	if result.Status != scenario.StatusPassed {
		statusClass = "status-failed"
	}

	fmt.Fprintln(w, "<h2>Summary</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Status</td><td class=\"%s\">"+
			"<strong>%s</strong></td></tr>\n",
		statusClass, strings.ToUpper(result.Status),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Start Time</td><td>%s</td></tr>\n",
		result.StartTime.Format(time.RFC3339),
	)
	fmt.Fprintf(
		w,
		"<tr><td>End Time</td><td>%s</td></tr>\n",
		result.EndTime.Format(time.RFC3339),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Duration</td><td>%v</td></tr>\n",
		result.Duration,
	)

	if result.ExitCode != nil {
		fmt.Fprintf(
			w,
			"<tr><td>Exit Code</td><td>%d</td></tr>\n",
			*result.ExitCode,
		)
	}
	if result.ProcessState != "" {
		fmt.Fprintf(
			w,
			"<tr><td>Process State</td><td>%s</td></tr>\n",
			html.EscapeString(result.ProcessState),
		)
	}
	if result.Check != "" {
		fmt.Fprintf(
			w,
			"<tr><td>Failing Check</td>"+
				"<td class=\"status-failed\">%s</td></tr>\n",
			html.EscapeString(result.Check),
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeVerdictSection(
	w io.Writer,
	result *scenario.Result,
) {
	if result.Verdict == "" {
		return
	}

	fmt.Fprintln(w, "<h2>Verdict</h2>")
	fmt.Fprintf(
		w,
		"<pre>%s</pre>\n",
		html.EscapeString(result.Verdict),
	)
}

func (r *HTMLReporter) writeArtifactsSection(
	w io.Writer,
	result *scenario.Result,
) {
	if result.StdoutDigest == "" && result.StderrDigest == "" {
		return
	}

	fmt.Fprintln(w, "<h2>Archived Output</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w, "<tr><th>Stream</th><th>Digest</th></tr>",
	)

	if result.StdoutDigest != "" {
		fmt.Fprintf(
			w,
			"<tr><td>stdout</td>"+
				"<td><code>%s</code></td></tr>\n",
			html.EscapeString(result.StdoutDigest),
		)
	}
	if result.StderrDigest != "" {
		fmt.Fprintf(
			w,
			"<tr><td>stderr</td>"+
				"<td><code>%s</code></td></tr>\n",
			html.EscapeString(result.StderrDigest),
		)
	}

	fmt.Fprintln(w, "</table>")
}

// GenerateRunSummary creates an HTML summary of all results of
// one run.
func (r *HTMLReporter) GenerateRunSummary(
	results []*scenario.Result,
) ([]byte, error) {
	var buf bytes.Buffer

	r.writeHeader(
		&buf, "Verification Harness - Run Summary",
	)

	fmt.Fprintln(
		&buf,
		"<h1>Verification Harness - Run Summary</h1>",
	)
	fmt.Fprintf(
		&buf,
		"<p><strong>Generated:</strong> %s</p>\n",
		time.Now().Format(time.RFC3339),
	)

	r.writeRunOverview(&buf, results)
	r.writeRunStats(&buf, results)
	r.writeRunDetails(&buf, results)
	r.writeFooter(&buf)

	return buf.Bytes(), nil
}

func (r *HTMLReporter) writeRunOverview(
	w io.Writer,
	results []*scenario.Result,
) {
	fmt.Fprintln(w, "<h2>Overview</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Scenario</th><th>Status</th>"+
			"<th>Check</th><th>Duration</th>"+
			"<th>Finished</th></tr>",
	)

	for _, result := range results {
		cls := "status-passed"
		if result.Status != scenario.StatusPassed {
			cls = "status-failed"
		}
		check := result.Check
		if check == "" {
			check = "-"
		}
		fmt.Fprintf(
			w,
			"<tr><td>%s</td>"+
				"<td class=\"%s\">%s</td>"+
				"<td>%s</td><td>%v</td><td>%s</td></tr>\n",
			html.EscapeString(result.ScenarioName),
			cls, strings.ToUpper(result.Status),
			html.EscapeString(check),
			result.Duration,
			result.EndTime.Format("2006-01-02 15:04:05"),
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeRunStats(
	w io.Writer,
	results []*scenario.Result,
) {
	summary := BuildRunSummary(results)

	fmt.Fprintln(w, "<h2>Statistics</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Total Scenarios</td>"+
			"<td>%d</td></tr>\n",
		summary.TotalCases,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Passed</td><td>%d</td></tr>\n",
		summary.PassedCases,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Failed</td><td>%d</td></tr>\n",
		summary.FailedCases,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Timed Out</td><td>%d</td></tr>\n",
		summary.TimedOutCases,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Stuck</td><td>%d</td></tr>\n",
		summary.StuckCases,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Errored</td><td>%d</td></tr>\n",
		summary.ErroredCases,
	)

	if summary.TotalCases > 0 {
		fmt.Fprintf(
			w,
			"<tr><td>Pass Rate</td>"+
				"<td>%.0f%%</td></tr>\n",
			summary.PassRate*100,
		)
	}

	fmt.Fprintf(
		w,
		"<tr><td>Total Duration</td>"+
			"<td>%v</td></tr>\n",
		summary.TotalDuration,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeRunDetails(
	w io.Writer,
	results []*scenario.Result,
) {
	var failing []*scenario.Result
	for _, result := range results {
		if result.Status != scenario.StatusPassed {
			failing = append(failing, result)
		}
	}
	if len(failing) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Failing Scenarios</h2>")

	for _, result := range failing {
		fmt.Fprintf(
			w,
			"<h3>%s</h3>\n",
			html.EscapeString(result.ScenarioName),
		)
		fmt.Fprintf(
			w,
			"<p><strong>Status:</strong> %s</p>\n",
			strings.ToUpper(result.Status),
		)
		fmt.Fprintf(
			w,
			"<p><strong>Duration:</strong> %v</p>\n",
			result.Duration,
		)

		if result.Verdict != "" {
			fmt.Fprintf(
				w,
				"<pre>%s</pre>\n",
				html.EscapeString(result.Verdict),
			)
		}
	}
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
h3 { color: #34495e; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
  font-size: 0.9em;
}
pre {
  background: #2c3e50;
  color: #ecf0f1;
  padding: 12px;
  border-radius: 4px;
  overflow-x: auto;
  font-size: 0.85em;
  white-space: pre-wrap;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(
		w, "<p>Generated by Verification Harness</p>",
	)
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
