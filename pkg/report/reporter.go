// Package report provides report generation for scenario
// results: JSON and HTML renderings, run summaries, and a
// SQLite-backed run history.
package report

import (
	"io"

	"digital.vasic.harness/pkg/scenario"
)

// Reporter defines the interface for generating run reports.
type Reporter interface {
	// GenerateReport creates a report for a single scenario
	// result.
	GenerateReport(result *scenario.Result) ([]byte, error)

	// GenerateRunSummary creates a summary of a whole run.
	GenerateRunSummary(
		results []*scenario.Result,
	) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, result *scenario.Result) error
}
