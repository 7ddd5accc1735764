package suite

import (
	"fmt"
	"sort"
	"sync"

	"digital.vasic.harness/pkg/scenario"
)

// Set is a thread-safe collection of scenarios keyed by ID.
// Sets are instance-owned: create one per process or test
// instead of sharing package state.
type Set struct {
	mu        sync.RWMutex
	scenarios map[scenario.ID]*scenario.Scenario
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{
		scenarios: make(map[scenario.ID]*scenario.Scenario),
	}
}

// Register adds a scenario. Returns an error if the ID is
// already taken.
func (s *Set) Register(sc *scenario.Scenario) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.scenarios[sc.ID]; exists {
		return fmt.Errorf("scenario already registered: %s", sc.ID)
	}
	s.scenarios[sc.ID] = sc
	return nil
}

// AddSuite registers every scenario of a compiled suite.
func (s *Set) AddSuite(su *Suite) error {
	for _, sc := range su.Scenarios {
		if err := s.Register(sc); err != nil {
			return fmt.Errorf("suite %s: %w", su.Name, err)
		}
	}
	return nil
}

// Get retrieves a scenario by ID.
func (s *Set) Get(id scenario.ID) (*scenario.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, exists := s.scenarios[id]
	if !exists {
		return nil, fmt.Errorf("scenario not found: %s", id)
	}
	return sc, nil
}

// List returns all registered scenarios sorted by ID.
func (s *Set) List() []*scenario.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*scenario.Scenario, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// ListByTag returns scenarios carrying the given tag, sorted
// by ID. An empty tag returns everything.
func (s *Set) ListByTag(tag string) []*scenario.Scenario {
	if tag == "" {
		return s.List()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*scenario.Scenario
	for _, sc := range s.scenarios {
		if sc.HasTag(tag) {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Clear removes all scenarios.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios = make(map[scenario.ID]*scenario.Scenario)
}

// Count returns the number of registered scenarios.
func (s *Set) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scenarios)
}
