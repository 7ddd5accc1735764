// Package metrics collects in-memory execution counters and
// exposes them in the Prometheus text format.
package metrics

import "time"

// HarnessMetrics defines the interface for recording run metrics.
type HarnessMetrics interface {
	// RecordScenario records a finished scenario execution.
	RecordScenario(scenarioID, status string, duration time.Duration)
	// RecordCheck records an expectation check outcome.
	RecordCheck(scenarioID, check string, passed bool)
	// IncrementRunTotal increments the total run counter.
	IncrementRunTotal()
	// SetActiveScenarios sets the gauge of in-flight scenarios.
	SetActiveScenarios(count int)
}

// NoopMetrics is a no-op implementation of HarnessMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordScenario(_, _ string, _ time.Duration) {}
func (NoopMetrics) RecordCheck(_, _ string, _ bool)             {}
func (NoopMetrics) IncrementRunTotal()                          {}
func (NoopMetrics) SetActiveScenarios(_ int)                    {}
