package report

import (
	"encoding/json"
	"io"
	"time"

	"digital.vasic.harness/pkg/scenario"
)

// Marshal seams for testing error paths.
var (
	jsonReportMarshal       = json.Marshal
	jsonReportMarshalIndent = json.MarshalIndent
)

// JSONReporter generates JSON reports from scenario results.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// GenerateReport creates a JSON report for a single scenario
// result.
func (r *JSONReporter) GenerateReport(
	result *scenario.Result,
) ([]byte, error) {
	if r.pretty {
		return jsonReportMarshalIndent(result, "", "  ")
	}
	return jsonReportMarshal(result)
}

// jsonRunSummary is the JSON structure for a run summary.
type jsonRunSummary struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	TotalCases    int                `json:"total_cases"`
	Passed        int                `json:"passed"`
	Failed        int                `json:"failed"`
	Errored       int                `json:"errored"`
	TimedOut      int                `json:"timed_out"`
	Stuck         int                `json:"stuck"`
	TotalDuration time.Duration      `json:"total_duration"`
	Results       []*scenario.Result `json:"results"`
}

// GenerateRunSummary creates a JSON summary of all results of
// one run.
func (r *JSONReporter) GenerateRunSummary(
	results []*scenario.Result,
) ([]byte, error) {
	summary := jsonRunSummary{
		GeneratedAt: time.Now(),
		TotalCases:  len(results),
		Results:     results,
	}

	for _, res := range results {
		switch res.Status {
		case scenario.StatusPassed:
			summary.Passed++
		case scenario.StatusFailed:
			summary.Failed++
		case scenario.StatusTimedOut:
			summary.TimedOut++
		case scenario.StatusStuck:
			summary.Stuck++
		default:
			summary.Errored++
		}
		summary.TotalDuration += res.Duration
	}

	if r.pretty {
		return jsonReportMarshalIndent(summary, "", "  ")
	}
	return jsonReportMarshal(summary)
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	result *scenario.Result,
) error {
	data, err := r.GenerateReport(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
