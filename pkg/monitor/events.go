// Package monitor streams live run progress to dashboards over
// plain HTTP, Server-Sent Events, and WebSocket.
package monitor

import (
	"time"

	"digital.vasic.harness/pkg/scenario"
)

// EventType represents the kind of run lifecycle event.
type EventType string

const (
	EventRunStarted   EventType = "run_started"
	EventCaseStarted  EventType = "case_started"
	EventCaseFinished EventType = "case_finished"
	EventRunFinished  EventType = "run_finished"
)

// Event represents a lifecycle event during a scenario run.
// Run-level events carry the scenario count; case-level events
// carry per-scenario state.
type Event struct {
	Type       EventType     `json:"type"`
	RunID      string        `json:"run_id,omitempty"`
	ScenarioID scenario.ID   `json:"scenario_id,omitempty"`
	Name       string        `json:"name,omitempty"`
	Status     string        `json:"status,omitempty"`
	Check      string        `json:"check,omitempty"`
	Message    string        `json:"message,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Scenarios  int           `json:"scenarios,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
