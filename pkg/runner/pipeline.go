package runner

import (
	"context"
	"time"

	"digital.vasic.harness/pkg/scenario"
)

// Pipeline represents a sequence of hooks and a runner that
// executes scenarios with pre- and post-processing steps.
// Pipeline hooks layer on top of the runner's own hooks and
// apply only to cases executed through the pipeline.
type Pipeline struct {
	runner    *DefaultRunner
	preHooks  []Hook
	postHooks []Hook
}

// NewPipeline creates a Pipeline wrapping the given runner.
func NewPipeline(runner *DefaultRunner) *Pipeline {
	return &Pipeline{
		runner: runner,
	}
}

// AddPreHook appends a pre-execution hook to the pipeline.
func (p *Pipeline) AddPreHook(h Hook) {
	p.preHooks = append(p.preHooks, h)
}

// AddPostHook appends a post-execution hook to the pipeline.
func (p *Pipeline) AddPostHook(h Hook) {
	p.postHooks = append(p.postHooks, h)
}

// Execute runs a scenario through the pipeline:
// pre-hooks -> runner execution -> post-hooks.
func (p *Pipeline) Execute(
	ctx context.Context,
	sc *scenario.Scenario,
) *scenario.Result {
	// Run pipeline-level pre-hooks.
	for _, hook := range p.preHooks {
		if err := hook(ctx, sc, p.runner.config); err != nil {
			return errorResult(sc, time.Now(),
				"pipeline pre-hook failed: "+err.Error())
		}
	}

	result := p.runner.executeScenario(ctx, sc)

	// Run pipeline-level post-hooks.
	for _, hook := range p.postHooks {
		if hookErr := hook(ctx, sc, p.runner.config); hookErr != nil {
			p.runner.logEvent(
				"pipeline_post_hook_warning",
				map[string]any{
					"scenario_id": sc.ID,
					"warning":     hookErr.Error(),
				},
			)
		}
	}

	return result
}

// ExecuteSequence runs multiple scenarios through the pipeline
// in order.
func (p *Pipeline) ExecuteSequence(
	ctx context.Context,
	scs []*scenario.Scenario,
) []*scenario.Result {
	results := make([]*scenario.Result, 0, len(scs))

	for _, sc := range scs {
		results = append(results, p.Execute(ctx, sc))
	}

	return results
}
