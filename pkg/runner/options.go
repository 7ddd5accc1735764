package runner

import (
	"time"

	"digital.vasic.harness/pkg/artifact"
	"digital.vasic.harness/pkg/env"
	"digital.vasic.harness/pkg/scenario"
)

// RunnerOption configures a DefaultRunner.
type RunnerOption func(*DefaultRunner)

// WithConfig replaces the runner configuration.
func WithConfig(cfg *scenario.Config) RunnerOption {
	return func(r *DefaultRunner) {
		if cfg != nil {
			r.config = cfg
		}
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger scenario.Logger) RunnerOption {
	return func(r *DefaultRunner) {
		r.logger = logger
	}
}

// WithParallelism bounds concurrent case execution. Values
// below two keep the runner sequential.
func WithParallelism(n int) RunnerOption {
	return func(r *DefaultRunner) {
		r.parallelism = n
	}
}

// WithTimeout sets the default execution timeout for
// scenarios that do not specify their own.
func WithTimeout(timeout time.Duration) RunnerOption {
	return func(r *DefaultRunner) {
		r.config.Timeout = timeout
	}
}

// WithIdleTimeout sets the default output-silence limit for
// scenarios that do not specify their own.
func WithIdleTimeout(timeout time.Duration) RunnerOption {
	return func(r *DefaultRunner) {
		r.config.IdleTimeout = timeout
	}
}

// WithWorkDir sets the base directory where scenario fixtures
// are built.
func WithWorkDir(dir string) RunnerOption {
	return func(r *DefaultRunner) {
		r.config.WorkDir = dir
	}
}

// WithStream mirrors captured output to the parent streams
// while cases run.
func WithStream(stream bool) RunnerOption {
	return func(r *DefaultRunner) {
		r.config.Stream = stream
	}
}

// WithLoader sets the environment loader used to resolve tool
// paths.
func WithLoader(loader env.Loader) RunnerOption {
	return func(r *DefaultRunner) {
		r.loader = loader
	}
}

// WithScrubber sets the environment scrubber applied to every
// sandboxed command.
func WithScrubber(scrub *env.Scrubber) RunnerOption {
	return func(r *DefaultRunner) {
		r.scrub = scrub
	}
}

// WithArtifacts archives output of non-passing cases in the
// given store.
func WithArtifacts(store *artifact.Store) RunnerOption {
	return func(r *DefaultRunner) {
		r.artifacts = store
	}
}

// WithCollector registers a run observer. May be given more
// than once.
func WithCollector(c Collector) RunnerOption {
	return func(r *DefaultRunner) {
		if c != nil {
			r.collectors = append(r.collectors, c)
		}
	}
}

// WithStore persists finished runs to the given history store.
func WithStore(store Store) RunnerOption {
	return func(r *DefaultRunner) {
		r.store = store
	}
}

// WithPreHook adds a pre-execution hook to the runner.
func WithPreHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.preHooks = append(r.preHooks, h)
	}
}

// WithPostHook adds a post-execution hook to the runner.
func WithPostHook(h Hook) RunnerOption {
	return func(r *DefaultRunner) {
		r.postHooks = append(r.postHooks, h)
	}
}
