package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.harness/pkg/scenario"
)

func TestJSONReporter_GenerateReport_Compact(t *testing.T) {
	r := NewJSONReporter(false)
	data, err := r.GenerateReport(makeTestResult())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n  ")

	var decoded scenario.Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, scenario.ID("build-ok"), decoded.ScenarioID)
	assert.Equal(t, scenario.StatusPassed, decoded.Status)
	require.NotNil(t, decoded.ExitCode)
	assert.Equal(t, 0, *decoded.ExitCode)
}

func TestJSONReporter_GenerateReport_Pretty(t *testing.T) {
	r := NewJSONReporter(true)
	data, err := r.GenerateReport(makeTestResult())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")
}

func TestJSONReporter_GenerateRunSummary_Counts(t *testing.T) {
	results := []*scenario.Result{
		{ScenarioID: "a", Status: scenario.StatusPassed,
			Duration: time.Second},
		{ScenarioID: "b", Status: scenario.StatusFailed,
			Duration: time.Second},
		{ScenarioID: "c", Status: scenario.StatusTimedOut,
			Duration: time.Second},
		{ScenarioID: "d", Status: scenario.StatusStuck,
			Duration: time.Second},
		{ScenarioID: "e", Status: scenario.StatusError,
			Duration: time.Second},
	}

	r := NewJSONReporter(false)
	data, err := r.GenerateRunSummary(results)
	require.NoError(t, err)

	var decoded struct {
		TotalCases    int           `json:"total_cases"`
		Passed        int           `json:"passed"`
		Failed        int           `json:"failed"`
		Errored       int           `json:"errored"`
		TimedOut      int           `json:"timed_out"`
		Stuck         int           `json:"stuck"`
		TotalDuration time.Duration `json:"total_duration"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 5, decoded.TotalCases)
	assert.Equal(t, 1, decoded.Passed)
	assert.Equal(t, 1, decoded.Failed)
	assert.Equal(t, 1, decoded.Errored)
	assert.Equal(t, 1, decoded.TimedOut)
	assert.Equal(t, 1, decoded.Stuck)
	assert.Equal(t, 5*time.Second, decoded.TotalDuration)
}

func TestJSONReporter_WriteReport(t *testing.T) {
	r := NewJSONReporter(false)
	result := makeTestResult()

	var buf bytes.Buffer
	require.NoError(t, r.WriteReport(&buf, result))

	direct, err := r.GenerateReport(result)
	require.NoError(t, err)
	assert.Equal(t, string(direct), buf.String())
}
