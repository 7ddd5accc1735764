package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"digital.vasic.harness/pkg/scenario"
)

var jsonMarshalIndent = json.MarshalIndent

// RunSummary represents an aggregated summary of one run.
type RunSummary struct {
	ID            string        `json:"id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Cases         []CaseSummary `json:"cases"`
	TotalCases    int           `json:"total_cases"`
	PassedCases   int           `json:"passed_cases"`
	FailedCases   int           `json:"failed_cases"`
	ErroredCases  int           `json:"errored_cases"`
	TimedOutCases int           `json:"timed_out_cases"`
	StuckCases    int           `json:"stuck_cases"`
	TotalDuration time.Duration `json:"total_duration"`
	PassRate      float64       `json:"pass_rate"`
}

// CaseSummary represents a summary of a single scenario.
type CaseSummary struct {
	ScenarioID   scenario.ID   `json:"scenario_id"`
	ScenarioName string        `json:"scenario_name"`
	Status       string        `json:"status"`
	Check        string        `json:"check,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// BuildRunSummary creates a run summary from scenario results.
func BuildRunSummary(
	results []*scenario.Result,
) *RunSummary {
	summary := &RunSummary{
		ID: fmt.Sprintf(
			"summary_%s",
			time.Now().Format("20060102_150405"),
		),
		GeneratedAt: time.Now(),
		Cases: make(
			[]CaseSummary, 0, len(results),
		),
	}

	for _, r := range results {
		cs := CaseSummary{
			ScenarioID:   r.ScenarioID,
			ScenarioName: r.ScenarioName,
			Status:       r.Status,
			Check:        r.Check,
			Duration:     r.Duration,
		}

		summary.Cases = append(summary.Cases, cs)
		summary.TotalCases++
		summary.TotalDuration += r.Duration

		switch r.Status {
		case scenario.StatusPassed:
			summary.PassedCases++
		case scenario.StatusFailed:
			summary.FailedCases++
		case scenario.StatusTimedOut:
			summary.TimedOutCases++
		case scenario.StatusStuck:
			summary.StuckCases++
		default:
			summary.ErroredCases++
		}
	}

	if summary.TotalCases > 0 {
		summary.PassRate =
			float64(summary.PassedCases) /
				float64(summary.TotalCases)
	}

	return summary
}

// SaveRunSummary saves the run summary to both JSON and
// Markdown files in the given output directory.
func SaveRunSummary(
	summary *RunSummary,
	outputDir string,
) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(
		outputDir,
		fmt.Sprintf("run_summary_%s.json", ts),
	)
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf(
			"failed to marshal summary: %w", err,
		)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write JSON summary: %w", err,
		)
	}

	mdPath := filepath.Join(
		outputDir,
		fmt.Sprintf("run_summary_%s.md", ts),
	)
	mdContent := generateSummaryMarkdown(summary)
	if err := os.WriteFile(
		mdPath, []byte(mdContent), 0644,
	); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

// generateSummaryMarkdown creates markdown from a run summary.
func generateSummaryMarkdown(summary *RunSummary) string {
	var sb strings.Builder

	sb.WriteString("# Verification Harness - Run Summary\n\n")
	sb.WriteString(
		fmt.Sprintf(
			"**Summary ID:** %s\n\n", summary.ID,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Generated:** %s\n\n",
			summary.GeneratedAt.Format(time.RFC3339),
		),
	)

	sb.WriteString("## Overview\n\n")
	sb.WriteString(
		"| Scenario | Status | Check | Duration |\n",
	)
	sb.WriteString(
		"|----------|--------|-------|----------|\n",
	)

	for _, c := range summary.Cases {
		status := strings.ToUpper(c.Status)
		check := c.Check
		if check == "" {
			check = "-"
		}
		sb.WriteString(
			fmt.Sprintf(
				"| %s | %s | %s | %v |\n",
				c.ScenarioName, status, check, c.Duration,
			),
		)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(
		fmt.Sprintf(
			"| Total Scenarios | %d |\n",
			summary.TotalCases,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Passed | %d |\n", summary.PassedCases,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Failed | %d |\n", summary.FailedCases,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Timed Out | %d |\n", summary.TimedOutCases,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Stuck | %d |\n", summary.StuckCases,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Errored | %d |\n", summary.ErroredCases,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Pass Rate | %.0f%% |\n",
			summary.PassRate*100,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Total Duration | %v |\n",
			summary.TotalDuration,
		),
	)

	sb.WriteString("\n---\n\n")
	sb.WriteString("*Generated by Verification Harness*\n")

	return sb.String()
}
