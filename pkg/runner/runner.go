// Package runner executes scenarios: fixture build, sandboxed
// process run, expectation evaluation, result. It supports
// sequential and bounded-parallel execution with lifecycle
// hooks, pluggable observers, and optional artifact and
// history persistence.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"digital.vasic.harness/pkg/artifact"
	"digital.vasic.harness/pkg/env"
	"digital.vasic.harness/pkg/expect"
	"digital.vasic.harness/pkg/sandbox"
	"digital.vasic.harness/pkg/scenario"
	"digital.vasic.harness/pkg/suite"
)

// Runner defines the interface for scenario execution.
type Runner interface {
	// Run executes a single scenario by ID.
	Run(ctx context.Context, id scenario.ID) (*scenario.Result, error)

	// RunAll executes every registered scenario.
	RunAll(ctx context.Context) ([]*scenario.Result, error)

	// RunTag executes the scenarios carrying the given tag.
	RunTag(ctx context.Context, tag string) ([]*scenario.Result, error)

	// RunScenarios executes the given scenarios, in order.
	RunScenarios(
		ctx context.Context,
		scs []*scenario.Scenario,
	) ([]*scenario.Result, error)
}

// Hook is a function invoked before or after scenario
// execution. A pre-hook error turns the case into an error
// result; post-hook errors are logged and ignored.
type Hook func(
	ctx context.Context,
	sc *scenario.Scenario,
	cfg *scenario.Config,
) error

// Collector observes run progress. Implementations must be
// safe for concurrent use when the runner is parallel.
type Collector interface {
	RunStarted(runID string, scenarios []*scenario.Scenario)
	CaseStarted(runID string, sc *scenario.Scenario)
	CaseFinished(runID string, result *scenario.Result)
	RunFinished(runID string, results []*scenario.Result)
}

// Store persists finished runs. The report package provides
// the SQLite-backed implementation.
type Store interface {
	RecordRun(
		runID string,
		started, finished time.Time,
		results []*scenario.Result,
	) error
}

// DefaultRunner is the standard Runner implementation.
type DefaultRunner struct {
	set         *suite.Set
	config      *scenario.Config
	logger      scenario.Logger
	loader      env.Loader
	scrub       *env.Scrubber
	artifacts   *artifact.Store
	store       Store
	collectors  []Collector
	parallelism int
	preHooks    []Hook
	postHooks   []Hook
}

// NewRunner creates a DefaultRunner over the given scenario
// set with the supplied options.
func NewRunner(set *suite.Set, opts ...RunnerOption) *DefaultRunner {
	r := &DefaultRunner{
		set:    set,
		config: scenario.NewConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes a single scenario by ID.
func (r *DefaultRunner) Run(
	ctx context.Context,
	id scenario.ID,
) (*scenario.Result, error) {
	sc, err := r.set.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get scenario: %w", err)
	}
	results, err := r.RunScenarios(ctx, []*scenario.Scenario{sc})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// RunAll executes every registered scenario sorted by ID.
func (r *DefaultRunner) RunAll(
	ctx context.Context,
) ([]*scenario.Result, error) {
	return r.RunScenarios(ctx, r.set.List())
}

// RunTag executes the scenarios carrying the given tag.
func (r *DefaultRunner) RunTag(
	ctx context.Context,
	tag string,
) ([]*scenario.Result, error) {
	return r.RunScenarios(ctx, r.set.ListByTag(tag))
}

// RunScenarios executes the given scenarios and returns their
// results in submission order. A case that fails its checks is
// a result, not an error; the returned error reports run-level
// problems such as context cancellation.
func (r *DefaultRunner) RunScenarios(
	ctx context.Context,
	scs []*scenario.Scenario,
) ([]*scenario.Result, error) {
	runID := uuid.NewString()
	started := time.Now()

	for _, c := range r.collectors {
		c.RunStarted(runID, scs)
	}
	r.logEvent("run_started", map[string]any{
		"run_id": runID,
		"total":  len(scs),
	})

	var results []*scenario.Result
	var err error
	if r.parallelism > 1 {
		results, err = runParallel(ctx, r, runID, scs, r.parallelism)
	} else {
		results, err = r.runSequential(ctx, runID, scs)
	}

	finished := time.Now()
	for _, c := range r.collectors {
		c.RunFinished(runID, results)
	}
	r.logEvent("run_finished", map[string]any{
		"run_id":           runID,
		"total":            len(results),
		"duration_seconds": finished.Sub(started).Seconds(),
	})

	if r.store != nil {
		if serr := r.store.RecordRun(runID, started, finished, results); serr != nil {
			r.logEvent("history_warning", map[string]any{
				"run_id":  runID,
				"warning": serr.Error(),
			})
		}
	}

	return results, err
}

func (r *DefaultRunner) runSequential(
	ctx context.Context,
	runID string,
	scs []*scenario.Scenario,
) ([]*scenario.Result, error) {
	var results []*scenario.Result
	for _, sc := range scs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r.runOne(ctx, runID, sc))
	}
	return results, nil
}

// runOne takes a scenario through hooks and execution. Panics
// anywhere in the case path are contained to an error result.
func (r *DefaultRunner) runOne(
	ctx context.Context,
	runID string,
	sc *scenario.Scenario,
) (res *scenario.Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = errorResult(sc, start,
				fmt.Sprintf("panic during execution: %v", p))
		}
		for _, c := range r.collectors {
			c.CaseFinished(runID, res)
		}
		r.logEvent("case_finished", map[string]any{
			"run_id":           runID,
			"scenario_id":      res.ScenarioID,
			"status":           res.Status,
			"check":            res.Check,
			"duration_seconds": res.Duration.Seconds(),
		})
	}()

	for _, c := range r.collectors {
		c.CaseStarted(runID, sc)
	}
	r.logEvent("case_started", map[string]any{
		"run_id":      runID,
		"scenario_id": sc.ID,
	})

	for _, hook := range r.preHooks {
		if err := hook(ctx, sc, r.config); err != nil {
			return errorResult(sc, start,
				fmt.Sprintf("pre-hook failed: %v", err))
		}
	}

	res = r.executeScenario(ctx, sc)

	for _, hook := range r.postHooks {
		if err := hook(ctx, sc, r.config); err != nil {
			r.logEvent("post_hook_warning", map[string]any{
				"scenario_id": sc.ID,
				"warning":     err.Error(),
			})
		}
	}
	return res
}

// executeScenario materializes the fixture, runs the command
// in the sandbox, and evaluates the expectation.
func (r *DefaultRunner) executeScenario(
	ctx context.Context,
	sc *scenario.Scenario,
) *scenario.Result {
	res := &scenario.Result{
		ScenarioID:   sc.ID,
		ScenarioName: sc.Name,
		Status:       scenario.StatusRunning,
		StartTime:    time.Now(),
	}
	finish := func() *scenario.Result {
		res.EndTime = time.Now()
		res.Duration = res.EndTime.Sub(res.StartTime)
		return res
	}

	dir := ""
	if sc.Fixture != nil {
		root := filepath.Join(r.config.WorkDir, string(sc.ID))
		tree, err := sc.Fixture.At(root).Build()
		if err != nil {
			res.Status = scenario.StatusError
			res.Verdict = fmt.Sprintf("build fixture: %v", err)
			return finish()
		}
		dir = tree.Root()
	}
	if sc.Command.Dir != "" {
		dir = filepath.Join(dir, sc.Command.Dir)
	}

	program := sc.Command.Program
	if r.loader != nil {
		program = r.loader.GetToolPath(program)
	}

	cmd := sandbox.New(program, sc.Command.Args...)
	if dir != "" {
		cmd.WithDir(dir)
	}
	if r.scrub != nil {
		cmd.WithScrubber(r.scrub)
	}
	for k, v := range mergeEnv(r.config.Environment, sc.Command.Env) {
		cmd.WithEnv(k, v)
	}
	if r.config.Stream {
		cmd.WithStream(os.Stdout)
	}

	if timeout := pick(sc.Timeout, r.config.Timeout); timeout > 0 {
		cmd.WithTimeout(timeout)
	}
	if idle := pick(sc.IdleTimeout, r.config.IdleTimeout); idle > 0 {
		cmd.WithIdleTimeout(idle)
	}

	out, runErr := cmd.Run(ctx)

	var execErr *sandbox.ExecError
	if runErr != nil {
		errors.As(runErr, &execErr)
	}
	observed := out
	if observed == nil && execErr != nil {
		observed = execErr.Output
	}
	if observed != nil {
		res.ExitCode = observed.ExitCode
		res.ProcessState = observed.State
	}

	expected := sc.Expected
	if expected == nil {
		expected = expect.New()
	}
	verdict := expected.EvaluateRun(out, runErr)
	if verdict == nil {
		res.Status = scenario.StatusPassed
		return finish()
	}

	var failure *expect.Failure
	if errors.As(verdict, &failure) {
		res.Check = string(failure.Check)
	}
	res.Verdict = verdict.Error()

	switch {
	case runErr == nil:
		res.Status = scenario.StatusFailed
	case execErr != nil && errors.Is(execErr.Cause, sandbox.ErrIdleTimeout):
		res.Status = scenario.StatusStuck
	case execErr != nil && errors.Is(execErr.Cause, context.DeadlineExceeded):
		res.Status = scenario.StatusTimedOut
	default:
		res.Status = scenario.StatusError
	}

	r.persistStreams(res, observed)
	return finish()
}

// persistStreams archives captured output of a non-passing
// case when an artifact store is configured.
func (r *DefaultRunner) persistStreams(
	res *scenario.Result,
	out *sandbox.Output,
) {
	if r.artifacts == nil || out == nil {
		return
	}
	if len(out.Stdout) > 0 {
		digest, err := r.artifacts.Put(out.Stdout)
		if err != nil {
			r.logEvent("artifact_warning", map[string]any{
				"scenario_id": res.ScenarioID,
				"warning":     err.Error(),
			})
		} else {
			res.StdoutDigest = digest
		}
	}
	if len(out.Stderr) > 0 {
		digest, err := r.artifacts.Put(out.Stderr)
		if err != nil {
			r.logEvent("artifact_warning", map[string]any{
				"scenario_id": res.ScenarioID,
				"warning":     err.Error(),
			})
		} else {
			res.StderrDigest = digest
		}
	}
}

func errorResult(
	sc *scenario.Scenario,
	start time.Time,
	verdict string,
) *scenario.Result {
	end := time.Now()
	return &scenario.Result{
		ScenarioID:   sc.ID,
		ScenarioName: sc.Name,
		Status:       scenario.StatusError,
		Verdict:      verdict,
		StartTime:    start,
		EndTime:      end,
		Duration:     end.Sub(start),
	}
}

func mergeEnv(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

func pick(own, fallback time.Duration) time.Duration {
	if own > 0 {
		return own
	}
	return fallback
}

// logEvent emits a structured log entry if a logger is
// configured.
func (r *DefaultRunner) logEvent(
	event string,
	data map[string]any,
) {
	if r.logger == nil {
		return
	}

	parts := make([]any, 0, len(data)*2)
	for k, v := range data {
		parts = append(parts, k, v)
	}
	r.logger.Info(event, parts...)
}
