package monitor

import (
	"sync"
	"time"

	"digital.vasic.harness/pkg/scenario"
)

// messageLimit caps the verdict excerpt carried on case_finished
// events. Full verdicts belong in reports, not the event stream.
const messageLimit = 200

// EventCollector captures run events and timing data. It
// satisfies the runner's Collector interface, so it can be
// registered directly as a run observer.
type EventCollector struct {
	mu       sync.RWMutex
	events   []Event
	handlers []func(Event)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics over finished cases.
type CollectorStats struct {
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	TimedOut  int           `json:"timed_out"`
	Stuck     int           `json:"stuck"`
	Errored   int           `json:"errored"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]Event, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers. Only
// case_finished events move the statistics.
func (c *EventCollector) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	if event.Type == EventCaseFinished {
		c.stats.Total++
		switch event.Status {
		case scenario.StatusPassed:
			c.stats.Passed++
		case scenario.StatusFailed:
			c.stats.Failed++
		case scenario.StatusSkipped:
			c.stats.Skipped++
		case scenario.StatusTimedOut:
			c.stats.TimedOut++
		case scenario.StatusStuck:
			c.stats.Stuck++
		case scenario.StatusError:
			c.stats.Errored++
		}
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(Event), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// RunStarted emits a run_started event carrying the scenario
// count.
func (c *EventCollector) RunStarted(runID string, scs []*scenario.Scenario) {
	c.Emit(Event{
		Type:      EventRunStarted,
		RunID:     runID,
		Scenarios: len(scs),
	})
}

// CaseStarted emits a case_started event for one scenario.
func (c *EventCollector) CaseStarted(runID string, sc *scenario.Scenario) {
	c.Emit(Event{
		Type:       EventCaseStarted,
		RunID:      runID,
		ScenarioID: sc.ID,
		Name:       sc.Name,
		Status:     scenario.StatusRunning,
	})
}

// CaseFinished emits a case_finished event carrying the final
// status, the failing check, and a verdict excerpt.
func (c *EventCollector) CaseFinished(runID string, result *scenario.Result) {
	c.Emit(Event{
		Type:       EventCaseFinished,
		RunID:      runID,
		ScenarioID: result.ScenarioID,
		Name:       result.ScenarioName,
		Status:     result.Status,
		Check:      result.Check,
		Message:    excerpt(result.Verdict),
		Duration:   result.Duration,
	})
}

// RunFinished emits a run_finished event.
func (c *EventCollector) RunFinished(runID string, results []*scenario.Result) {
	c.Emit(Event{
		Type:      EventRunFinished,
		RunID:     runID,
		Scenarios: len(results),
	})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Event, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}

func excerpt(verdict string) string {
	if len(verdict) <= messageLimit {
		return verdict
	}
	return verdict[:messageLimit] + "..."
}
