package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

type scenarioKey struct {
	scenario, status string
}

type checkKey struct {
	scenario, check, outcome string
}

type durationTotals struct {
	sum   time.Duration
	count int
}

// PrometheusMetrics implements HarnessMetrics with in-memory
// counters rendered in the Prometheus text exposition format.
// All methods are safe for concurrent use.
type PrometheusMetrics struct {
	mu         sync.Mutex
	executions map[scenarioKey]int
	checks     map[checkKey]int
	durations  map[string]durationTotals
	runTotal   int
	active     int
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		executions: make(map[scenarioKey]int),
		checks:     make(map[checkKey]int),
		durations:  make(map[string]durationTotals),
	}
}

func (m *PrometheusMetrics) RecordScenario(
	scenarioID, status string, duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.executions[scenarioKey{scenarioID, status}]++
	totals := m.durations[scenarioID]
	totals.sum += duration
	totals.count++
	m.durations[scenarioID] = totals
}

func (m *PrometheusMetrics) RecordCheck(
	scenarioID, check string, passed bool,
) {
	outcome := "failed"
	if passed {
		outcome = "passed"
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[checkKey{scenarioID, check, outcome}]++
}

func (m *PrometheusMetrics) IncrementRunTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runTotal++
}

func (m *PrometheusMetrics) SetActiveScenarios(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// ExecutionCount returns the count for a scenario+status
// combination.
func (m *PrometheusMetrics) ExecutionCount(
	scenarioID, status string,
) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.executions[scenarioKey{scenarioID, status}]
}

// CheckCount returns the count for a scenario+check+outcome
// combination, with outcome "passed" or "failed".
func (m *PrometheusMetrics) CheckCount(
	scenarioID, check, outcome string,
) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checks[checkKey{scenarioID, check, outcome}]
}

// RunTotal returns the total number of runs.
func (m *PrometheusMetrics) RunTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runTotal
}

// ActiveScenarios returns the current in-flight gauge.
func (m *PrometheusMetrics) ActiveScenarios() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// WriteText renders all series in the Prometheus text
// exposition format, with label sets in a stable order.
func (m *PrometheusMetrics) WriteText(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var b strings.Builder

	b.WriteString(
		"# HELP harness_runs_total Total harness runs started.\n",
	)
	b.WriteString("# TYPE harness_runs_total counter\n")
	fmt.Fprintf(&b, "harness_runs_total %d\n", m.runTotal)

	b.WriteString(
		"# HELP harness_active_scenarios Scenarios currently executing.\n",
	)
	b.WriteString("# TYPE harness_active_scenarios gauge\n")
	fmt.Fprintf(&b, "harness_active_scenarios %d\n", m.active)

	b.WriteString(
		"# HELP harness_scenarios_total Finished scenario executions by status.\n",
	)
	b.WriteString("# TYPE harness_scenarios_total counter\n")
	execKeys := make([]scenarioKey, 0, len(m.executions))
	for k := range m.executions {
		execKeys = append(execKeys, k)
	}
	sort.Slice(execKeys, func(i, j int) bool {
		if execKeys[i].scenario != execKeys[j].scenario {
			return execKeys[i].scenario < execKeys[j].scenario
		}
		return execKeys[i].status < execKeys[j].status
	})
	for _, k := range execKeys {
		fmt.Fprintf(&b,
			"harness_scenarios_total{scenario=%q,status=%q} %d\n",
			k.scenario, k.status, m.executions[k],
		)
	}

	b.WriteString(
		"# HELP harness_checks_total Expectation check outcomes.\n",
	)
	b.WriteString("# TYPE harness_checks_total counter\n")
	checkKeys := make([]checkKey, 0, len(m.checks))
	for k := range m.checks {
		checkKeys = append(checkKeys, k)
	}
	sort.Slice(checkKeys, func(i, j int) bool {
		a, c := checkKeys[i], checkKeys[j]
		if a.scenario != c.scenario {
			return a.scenario < c.scenario
		}
		if a.check != c.check {
			return a.check < c.check
		}
		return a.outcome < c.outcome
	})
	for _, k := range checkKeys {
		fmt.Fprintf(&b,
			"harness_checks_total{scenario=%q,check=%q,outcome=%q} %d\n",
			k.scenario, k.check, k.outcome, m.checks[k],
		)
	}

	b.WriteString(
		"# HELP harness_scenario_duration_seconds Execution time per scenario.\n",
	)
	b.WriteString(
		"# TYPE harness_scenario_duration_seconds summary\n",
	)
	durKeys := make([]string, 0, len(m.durations))
	for k := range m.durations {
		durKeys = append(durKeys, k)
	}
	sort.Strings(durKeys)
	for _, k := range durKeys {
		totals := m.durations[k]
		fmt.Fprintf(&b,
			"harness_scenario_duration_seconds_sum{scenario=%q} %g\n",
			k, totals.sum.Seconds(),
		)
		fmt.Fprintf(&b,
			"harness_scenario_duration_seconds_count{scenario=%q} %d\n",
			k, totals.count,
		)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Handler returns an http.Handler serving the text exposition,
// suitable for mounting at /metrics.
func (m *PrometheusMetrics) Handler() http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(
				"Content-Type",
				"text/plain; version=0.0.4; charset=utf-8",
			)
			_ = m.WriteText(w)
		},
	)
}
