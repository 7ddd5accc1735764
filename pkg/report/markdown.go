package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"digital.vasic.harness/pkg/scenario"
)

// MarkdownReporter generates Markdown reports from scenario
// results.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

// GenerateReport creates a Markdown report for a single
// scenario result.
func (r *MarkdownReporter) GenerateReport(
	result *scenario.Result,
) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(
		fmt.Sprintf(
			"# Scenario Report: %s\n\n", result.ScenarioName,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Scenario ID:** %s\n\n", result.ScenarioID,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Status:** %s\n\n",
			strings.ToUpper(result.Status),
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Generated:** %s\n\n",
			result.EndTime.Format(time.RFC3339),
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Duration:** %v\n\n", result.Duration,
		),
	)

	if result.ExitCode != nil {
		sb.WriteString(
			fmt.Sprintf(
				"**Exit Code:** %d\n\n", *result.ExitCode,
			),
		)
	}
	if result.ProcessState != "" {
		sb.WriteString(
			fmt.Sprintf(
				"**Process State:** %s\n\n",
				result.ProcessState,
			),
		)
	}
	if result.Check != "" {
		sb.WriteString(
			fmt.Sprintf(
				"**Failing Check:** %s\n\n", result.Check,
			),
		)
	}

	if result.Verdict != "" {
		sb.WriteString("## Verdict\n\n")
		sb.WriteString("```\n")
		sb.WriteString(result.Verdict)
		if !strings.HasSuffix(result.Verdict, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("```\n\n")
	}

	if result.StdoutDigest != "" || result.StderrDigest != "" {
		sb.WriteString("## Archived Output\n\n")
		sb.WriteString("| Stream | Digest |\n")
		sb.WriteString("|--------|--------|\n")
		if result.StdoutDigest != "" {
			sb.WriteString(
				fmt.Sprintf(
					"| stdout | `%s` |\n",
					result.StdoutDigest,
				),
			)
		}
		if result.StderrDigest != "" {
			sb.WriteString(
				fmt.Sprintf(
					"| stderr | `%s` |\n",
					result.StderrDigest,
				),
			)
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// GenerateRunSummary creates a Markdown summary of all
// results of one run.
func (r *MarkdownReporter) GenerateRunSummary(
	results []*scenario.Result,
) ([]byte, error) {
	summary := BuildRunSummary(results)
	return []byte(generateSummaryMarkdown(summary)), nil
}

// WriteReport writes a Markdown report to the specified
// writer.
func (r *MarkdownReporter) WriteReport(
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
