package monitor

import (
	"sync"
	"time"

	"digital.vasic.harness/pkg/scenario"
)

// DashboardData tracks real-time run state for the monitor
// endpoints. All access goes through its methods; Snapshot
// returns a copy safe to serialize.
type DashboardData struct {
	mu        sync.RWMutex
	runID     string
	startTime time.Time
	status    string
	scenarios map[scenario.ID]ScenarioState
	summary   DashboardSummary
}

// DashboardSnapshot is a point-in-time copy of dashboard state.
type DashboardSnapshot struct {
	RunID     string                        `json:"run_id"`
	StartTime time.Time                     `json:"start_time"`
	Status    string                        `json:"status"` // running, completed
	Scenarios map[scenario.ID]ScenarioState `json:"scenarios"`
	Summary   DashboardSummary              `json:"summary"`
}

// ScenarioState represents the current state of one scenario in
// the dashboard.
type ScenarioState struct {
	ID        scenario.ID   `json:"id"`
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	Check     string        `json:"check,omitempty"`
	StartTime *time.Time    `json:"start_time,omitempty"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
// Errored counts timed out, stuck, and errored scenarios
// together; the per-scenario states keep the precise status.
type DashboardSummary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Skipped  int     `json:"skipped"`
	Errored  int     `json:"errored"`
	Running  int     `json:"running"`
	Pending  int     `json:"pending"`
	PassRate float64 `json:"pass_rate"`
	Elapsed  string  `json:"elapsed"`
}

// NewDashboardData creates a new dashboard data instance.
func NewDashboardData(runID string) *DashboardData {
	return &DashboardData{
		runID:     runID,
		startTime: time.Now(),
		status:    "running",
		scenarios: make(map[scenario.ID]ScenarioState),
	}
}

// UpdateFromEvent updates dashboard state from a run event.
func (d *DashboardData) UpdateFromEvent(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch event.Type {
	case EventRunStarted:
		if event.RunID != "" {
			d.runID = event.RunID
		}
		d.status = "running"
	case EventRunFinished:
		d.status = "completed"
	case EventCaseStarted, EventCaseFinished:
		d.updateScenario(event)
	}
	d.recalcSummary()
}

func (d *DashboardData) updateScenario(event Event) {
	now := time.Now()
	state, exists := d.scenarios[event.ScenarioID]
	if !exists {
		state = ScenarioState{
			ID:   event.ScenarioID,
			Name: event.Name,
		}
	}

	switch event.Type {
	case EventCaseStarted:
		state.Status = scenario.StatusRunning
		state.StartTime = &now
	case EventCaseFinished:
		state.Status = event.Status
		state.EndTime = &now
		state.Duration = event.Duration
		state.Check = event.Check
		state.Message = event.Message
	}

	d.scenarios[event.ScenarioID] = state
}

func (d *DashboardData) recalcSummary() {
	s := DashboardSummary{}
	for _, sc := range d.scenarios {
		s.Total++
		switch sc.Status {
		case scenario.StatusPassed:
			s.Passed++
		case scenario.StatusFailed:
			s.Failed++
		case scenario.StatusSkipped:
			s.Skipped++
		case scenario.StatusTimedOut, scenario.StatusStuck,
			scenario.StatusError:
			s.Errored++
		case scenario.StatusRunning:
			s.Running++
		default:
			s.Pending++
		}
	}
	if completed := s.Passed + s.Failed; completed > 0 {
		s.PassRate = float64(s.Passed) / float64(completed) * 100
	}
	s.Elapsed = time.Since(d.startTime).Round(time.Millisecond).String()
	d.summary = s
}

// Snapshot returns a copy of the current dashboard state.
func (d *DashboardData) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := DashboardSnapshot{
		RunID:     d.runID,
		StartTime: d.startTime,
		Status:    d.status,
		Scenarios: make(map[scenario.ID]ScenarioState, len(d.scenarios)),
		Summary:   d.summary,
	}
	for k, v := range d.scenarios {
		snap.Scenarios[k] = v
	}
	return snap
}

// SetStatus sets the overall run status.
func (d *DashboardData) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

// BuildDashboardData creates a DashboardData snapshot from an
// EventCollector by replaying all collected events.
func BuildDashboardData(collector *EventCollector) *DashboardData {
	data := NewDashboardData("snapshot")
	for _, event := range collector.Events() {
		data.UpdateFromEvent(event)
	}
	return data
}
