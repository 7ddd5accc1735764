package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_RecordScenario(t *testing.T) {
	m := NewPrometheusMetrics()
	m.RecordScenario("build-ok", "passed", 2*time.Second)
	m.RecordScenario("build-ok", "passed", 3*time.Second)
	m.RecordScenario("bad-flag", "failed", time.Second)

	assert.Equal(t, 2, m.ExecutionCount("build-ok", "passed"))
	assert.Equal(t, 1, m.ExecutionCount("bad-flag", "failed"))
	assert.Equal(t, 0, m.ExecutionCount("ghost", "passed"))
}

func TestPrometheusMetrics_RecordCheck(t *testing.T) {
	m := NewPrometheusMetrics()
	m.RecordCheck("bad-flag", "exact_stderr", true)
	m.RecordCheck("bad-flag", "exact_stderr", false)
	m.RecordCheck("bad-flag", "exact_stderr", false)

	assert.Equal(t, 1,
		m.CheckCount("bad-flag", "exact_stderr", "passed"))
	assert.Equal(t, 2,
		m.CheckCount("bad-flag", "exact_stderr", "failed"))
}

func TestPrometheusMetrics_RunTotal(t *testing.T) {
	m := NewPrometheusMetrics()
	m.IncrementRunTotal()
	m.IncrementRunTotal()
	assert.Equal(t, 2, m.RunTotal())
}

func TestPrometheusMetrics_ActiveScenarios(t *testing.T) {
	m := NewPrometheusMetrics()
	m.SetActiveScenarios(5)
	assert.Equal(t, 5, m.ActiveScenarios())
}

func TestNoopMetrics(t *testing.T) {
	m := &NoopMetrics{}
	// Should not panic
	m.RecordScenario("build-ok", "passed", time.Second)
	m.RecordCheck("build-ok", "exit_code", true)
	m.IncrementRunTotal()
	m.SetActiveScenarios(0)
}
