// Command harness runs declarative verification suites:
// external commands executed in sandboxed fixture trees with
// their output judged against wildcard, sequence, and JSON
// expectations.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"digital.vasic.harness/pkg/artifact"
	"digital.vasic.harness/pkg/expect"
	"digital.vasic.harness/pkg/logging"
	"digital.vasic.harness/pkg/metrics"
	"digital.vasic.harness/pkg/monitor"
	"digital.vasic.harness/pkg/report"
	"digital.vasic.harness/pkg/runner"
	"digital.vasic.harness/pkg/sandbox"
	"digital.vasic.harness/pkg/scenario"
	"digital.vasic.harness/pkg/suite"
)

const version = "0.1.0"

var CLI struct {
	Verbose bool `help:"Enable verbose output" short:"v"`

	Run     RunCmd     `cmd:"" help:"Run suites and judge their output"`
	List    ListCmd    `cmd:"" help:"List the scenarios of a suite"`
	Eval    EvalCmd    `cmd:"" help:"Evaluate an expectation against captured output"`
	History HistoryCmd `cmd:"" help:"Inspect a recorded run history"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// RunCmd executes a suite file or a directory of suite files.
type RunCmd struct {
	Suite string `arg:"" help:"Suite file or directory of suite files" type:"path"`

	Tag         string        `help:"Run only scenarios carrying this tag"`
	Parallel    int           `help:"Number of scenarios to run concurrently" default:"1"`
	Timeout     time.Duration `help:"Default per-scenario timeout (0 keeps the built-in default)"`
	IdleTimeout time.Duration `help:"Kill a scenario after this much output silence (0 disables)"`
	WorkDir     string        `help:"Root directory for scenario fixture trees" type:"path"`
	Stream      bool          `help:"Mirror scenario output to the console while cases run"`
	Report      string        `help:"Write run reports into this directory" type:"path"`
	History     string        `help:"Record the run in this SQLite database" type:"path"`
	Artifacts   string        `help:"Archive output streams of non-passing cases here" type:"path"`
	Logs        string        `help:"Write structured JSON logs into this directory" type:"path"`
	MonitorAddr string        `help:"Serve the live monitor on this address (e.g. :8090)"`
	Secret      []string      `help:"Value to redact from all log output (repeatable)"`
}

// Run loads the suite, assembles the runner stack from the
// given flags, executes every selected scenario and reports
// the outcome. A non-passing case makes the command fail.
func (c *RunCmd) Run() error {
	set, err := loadSet(c.Suite)
	if err != nil {
		return err
	}

	scs := set.List()
	if c.Tag != "" {
		scs = set.ListByTag(c.Tag)
	}
	if len(scs) == 0 {
		return fmt.Errorf("no scenarios to run in %s", c.Suite)
	}

	logger, err := buildLogger(c.Logs, c.Secret)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	opts := []runner.RunnerOption{
		runner.WithLogger(logging.NewBridge(logger)),
		runner.WithParallelism(c.Parallel),
		runner.WithStream(c.Stream),
		runner.WithCollector(&execLogCollector{logger: logger}),
	}
	if c.Timeout > 0 {
		opts = append(opts, runner.WithTimeout(c.Timeout))
	}
	if c.IdleTimeout > 0 {
		opts = append(opts, runner.WithIdleTimeout(c.IdleTimeout))
	}
	if c.WorkDir != "" {
		opts = append(opts, runner.WithWorkDir(c.WorkDir))
	}
	if c.Artifacts != "" {
		store, err := artifact.NewStore(c.Artifacts)
		if err != nil {
			return fmt.Errorf("failed to open artifact store: %w", err)
		}
		opts = append(opts, runner.WithArtifacts(store))
	}
	if c.History != "" {
		history, err := report.OpenHistory(c.History)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer func() { _ = history.Close() }()
		opts = append(opts, runner.WithStore(history))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if c.MonitorAddr != "" {
		prom := metrics.NewPrometheusMetrics()
		events := monitor.NewEventCollector()
		dashboard := monitor.NewDashboardData("")
		srv := monitor.NewServer(c.MonitorAddr, events, dashboard)
		srv.AttachMetrics(prom.Handler())
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Warn(
					"monitor server stopped",
					logging.ErrorField(err),
				)
			}
		}()
		defer func() { _ = srv.Stop(context.Background()) }()
		opts = append(opts,
			runner.WithCollector(events),
			runner.WithCollector(metrics.NewCollector(prom)),
		)
		fmt.Printf("Monitor listening on %s\n", c.MonitorAddr)
	}

	r := runner.NewRunner(set, opts...)
	results, err := r.RunScenarios(ctx, scs)
	if err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}

	summary := report.BuildRunSummary(results)
	printResults(results, summary)

	if c.Report != "" {
		if err := writeReports(results, summary, c.Report); err != nil {
			return err
		}
		fmt.Printf("Reports written to %s\n", c.Report)
	}

	if summary.PassedCases < summary.TotalCases {
		return fmt.Errorf(
			"%d of %d scenarios did not pass",
			summary.TotalCases-summary.PassedCases,
			summary.TotalCases,
		)
	}
	return nil
}

// ListCmd prints the scenarios of a suite without running them.
type ListCmd struct {
	Suite string `arg:"" help:"Suite file or directory of suite files" type:"path"`
	Tag   string `help:"List only scenarios carrying this tag"`
}

func (c *ListCmd) Run() error {
	set, err := loadSet(c.Suite)
	if err != nil {
		return err
	}

	scs := set.List()
	if c.Tag != "" {
		scs = set.ListByTag(c.Tag)
	}

	for _, sc := range scs {
		line := fmt.Sprintf("%-24s %s", sc.ID, sc.Name)
		if len(sc.Tags) > 0 {
			line += fmt.Sprintf(
				" [%s]", strings.Join(sc.Tags, ", "),
			)
		}
		fmt.Println(line)
	}
	fmt.Printf("%d scenarios\n", len(scs))
	return nil
}

// EvalCmd judges captured output against a declarative
// expectation without running anything. The expectation file
// uses the same expect block syntax as suite documents.
type EvalCmd struct {
	Expect string `arg:"" help:"YAML expectation document" type:"existingfile"`

	ExitCode   int    `help:"Exit code of the captured process" default:"0"`
	NoExitCode bool   `help:"The process did not exit on its own (killed by a signal)"`
	Stdout     string `help:"File holding the captured stdout" type:"existingfile"`
	Stderr     string `help:"File holding the captured stderr" type:"existingfile"`
	State      string `help:"Process state description used in verdicts"`
}

func (c *EvalCmd) Run() error {
	data, err := os.ReadFile(c.Expect)
	if err != nil {
		return fmt.Errorf("failed to read expectation: %w", err)
	}

	var doc suite.ExpectDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil &&
		!errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse expectation: %w", err)
	}

	out := &sandbox.Output{State: c.State}
	if !c.NoExitCode {
		code := c.ExitCode
		out.ExitCode = &code
		if out.State == "" {
			out.State = fmt.Sprintf("exit status %d", code)
		}
	}
	if c.Stdout != "" {
		if out.Stdout, err = os.ReadFile(c.Stdout); err != nil {
			return fmt.Errorf("failed to read stdout file: %w", err)
		}
	}
	if c.Stderr != "" {
		if out.Stderr, err = os.ReadFile(c.Stderr); err != nil {
			return fmt.Errorf("failed to read stderr file: %w", err)
		}
	}

	if err := suite.CompileExpect(&doc).Evaluate(out); err != nil {
		var failure *expect.Failure
		if errors.As(err, &failure) {
			fmt.Printf(
				"FAIL [%s]\n%s\n",
				failure.Check, failure.Message,
			)
		} else {
			fmt.Printf("FAIL\n%s\n", err)
		}
		return errors.New("expectations not met")
	}

	fmt.Println("PASS")
	return nil
}

// HistoryCmd queries a recorded run history database.
type HistoryCmd struct {
	Path string `arg:"" help:"History database file" type:"path"`

	Limit    int    `help:"Number of runs to show" default:"10"`
	RunID    string `help:"Show the per-case rows of one run" name:"run"`
	Scenario string `help:"Show the pass rate of one scenario"`
}

func (c *HistoryCmd) Run() error {
	history, err := report.OpenHistory(c.Path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = history.Close() }()

	switch {
	case c.Scenario != "":
		stats, err := history.StatsFor(c.Scenario)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		fmt.Printf(
			"%s: %d runs, %d passed (%.1f%%)",
			stats.ScenarioID, stats.Runs, stats.Passed,
			stats.PassRate*100,
		)
		if stats.LastStatus != "" {
			fmt.Printf(", last %s", stats.LastStatus)
		}
		fmt.Println()

	case c.RunID != "":
		records, err := history.RunResults(c.RunID)
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}
		for _, rec := range records {
			line := fmt.Sprintf(
				"%-9s %-24s %s",
				rec.Status, rec.ScenarioID,
				rec.Duration.Round(time.Millisecond),
			)
			if rec.Check != "" {
				line += fmt.Sprintf(" [%s]", rec.Check)
			}
			fmt.Println(line)
		}
		fmt.Printf("%d cases\n", len(records))

	default:
		records, err := history.RecentRuns(c.Limit)
		if err != nil {
			return fmt.Errorf("failed to load runs: %w", err)
		}
		for _, rec := range records {
			fmt.Printf(
				"%s  %s  %d cases: %d passed, %d failed, %d errored\n",
				rec.ID,
				rec.Started.Format(time.RFC3339),
				rec.Total, rec.Passed,
				rec.Failed, rec.Errored,
			)
		}
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("harness version %s\n", version)
	return nil
}

// loadSet compiles a suite file, or every suite file of a
// directory, into one scenario set.
func loadSet(path string) (*suite.Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return suite.LoadDir(path)
	}

	s, err := suite.LoadFile(path)
	if err != nil {
		return nil, err
	}
	set := suite.NewSet()
	if err := set.AddSuite(s); err != nil {
		return nil, err
	}
	return set, nil
}

// buildLogger assembles the logger stack: console always, JSON
// files when a logs directory is given, redaction when secrets
// are configured.
func buildLogger(
	logsDir string,
	secrets []string,
) (logging.Logger, error) {
	var logger logging.Logger = logging.NewConsoleLogger(
		CLI.Verbose,
	)

	if logsDir != "" {
		jsonLogger, err := logging.SetupLogging(
			logsDir, CLI.Verbose,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to set up logging: %w", err,
			)
		}
		logger = logging.NewMultiLogger(logger, jsonLogger)
	}

	if len(secrets) > 0 {
		logger = logging.NewRedactingLogger(logger, secrets...)
	}
	return logger, nil
}

// printResults writes the per-case outcome table, the full
// verdicts of non-passing cases, and the run totals.
func printResults(
	results []*scenario.Result,
	summary *report.RunSummary,
) {
	fmt.Println()
	for _, res := range results {
		mark := "PASS"
		if !res.Passed() {
			mark = strings.ToUpper(res.Status)
		}
		line := fmt.Sprintf(
			"%-9s %-24s %s",
			mark, res.ScenarioID,
			res.Duration.Round(time.Millisecond),
		)
		if res.Check != "" {
			line += fmt.Sprintf(" [%s]", res.Check)
		}
		fmt.Println(line)
	}

	for _, res := range results {
		if res.Passed() || res.Verdict == "" {
			continue
		}
		fmt.Printf(
			"\n--- %s\n%s\n", res.ScenarioID, res.Verdict,
		)
	}

	fmt.Printf(
		"\n%d cases: %d passed, %d failed, %d errored in %s\n",
		summary.TotalCases,
		summary.PassedCases,
		summary.FailedCases,
		summary.ErroredCases+summary.TimedOutCases+
			summary.StuckCases,
		summary.TotalDuration.Round(time.Millisecond),
	)
}

// writeReports saves the JSON and Markdown run summaries, an
// HTML rendering, and one JSON report per non-passing case.
func writeReports(
	results []*scenario.Result,
	summary *report.RunSummary,
	dir string,
) error {
	if err := report.SaveRunSummary(summary, dir); err != nil {
		return fmt.Errorf("failed to save run summary: %w", err)
	}

	html, err := report.NewHTMLReporter().GenerateRunSummary(
		results,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to render HTML summary: %w", err,
		)
	}
	htmlPath := filepath.Join(dir, "run_summary.html")
	if err := os.WriteFile(htmlPath, html, 0644); err != nil {
		return fmt.Errorf(
			"failed to write HTML summary: %w", err,
		)
	}

	jsonRep := report.NewJSONReporter(true)
	for _, res := range results {
		if res.Passed() {
			continue
		}
		data, err := jsonRep.GenerateReport(res)
		if err != nil {
			return fmt.Errorf(
				"failed to render report for %s: %w",
				res.ScenarioID, err,
			)
		}
		path := filepath.Join(
			dir, fmt.Sprintf("case_%s.json", res.ScenarioID),
		)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf(
				"failed to write report for %s: %w",
				res.ScenarioID, err,
			)
		}
	}
	return nil
}

// execLogCollector feeds process launches and evaluation
// outcomes into the structured exec and verdict logs.
type execLogCollector struct {
	logger logging.Logger
}

func (c *execLogCollector) RunStarted(
	_ string, _ []*scenario.Scenario,
) {
}

func (c *execLogCollector) CaseStarted(
	runID string, sc *scenario.Scenario,
) {
	c.logger.LogExec(logging.ExecLog{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		RunID:      runID,
		ScenarioID: string(sc.ID),
		Program:    sc.Command.Program,
		Args:       sc.Command.Args,
		Dir:        sc.Command.Dir,
		Env:        sc.Command.Env,
	})
}

func (c *execLogCollector) CaseFinished(
	runID string, result *scenario.Result,
) {
	c.logger.LogVerdict(logging.VerdictLog{
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
		RunID:          runID,
		ScenarioID:     string(result.ScenarioID),
		Status:         result.Status,
		Check:          result.Check,
		VerdictPreview: verdictPreview(result.Verdict),
		VerdictLength:  len(result.Verdict),
		DurationMs:     result.Duration.Milliseconds(),
	})
}

func (c *execLogCollector) RunFinished(
	_ string, _ []*scenario.Result,
) {
}

// verdictPreview keeps log records small; the full verdict
// lives in reports and artifacts.
func verdictPreview(verdict string) string {
	const limit = 200
	if len(verdict) <= limit {
		return verdict
	}
	return verdict[:limit] + "..."
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("harness"),
		kong.Description(
			"Scenario verification harness - run commands in "+
				"sandboxed fixtures and judge their output",
		),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
