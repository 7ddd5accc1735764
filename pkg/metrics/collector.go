package metrics

import (
	"sync"

	"digital.vasic.harness/pkg/scenario"
)

// Collector feeds runner events into a HarnessMetrics sink.
// It tracks the in-flight gauge itself so the sink only ever
// sees absolute values.
type Collector struct {
	sink HarnessMetrics

	mu     sync.Mutex
	active int
}

// NewCollector creates a collector recording into sink.
func NewCollector(sink HarnessMetrics) *Collector {
	return &Collector{sink: sink}
}

// RunStarted increments the run counter.
func (c *Collector) RunStarted(
	_ string, _ []*scenario.Scenario,
) {
	c.sink.IncrementRunTotal()
}

// CaseStarted raises the in-flight gauge.
func (c *Collector) CaseStarted(
	_ string, _ *scenario.Scenario,
) {
	c.mu.Lock()
	c.active++
	active := c.active
	c.mu.Unlock()
	c.sink.SetActiveScenarios(active)
}

// CaseFinished lowers the in-flight gauge and records the
// execution and, when a check failed, the check outcome.
func (c *Collector) CaseFinished(
	_ string, result *scenario.Result,
) {
	c.mu.Lock()
	c.active--
	active := c.active
	c.mu.Unlock()
	c.sink.SetActiveScenarios(active)

	c.sink.RecordScenario(
		string(result.ScenarioID),
		result.Status,
		result.Duration,
	)
	if result.Check != "" {
		c.sink.RecordCheck(
			string(result.ScenarioID), result.Check, false,
		)
	}
}

// RunFinished resets the in-flight gauge.
func (c *Collector) RunFinished(
	_ string, _ []*scenario.Result,
) {
	c.mu.Lock()
	c.active = 0
	c.mu.Unlock()
	c.sink.SetActiveScenarios(0)
}
