package env

import (
	"sort"
	"strings"
)

// defaultDropped lists variables removed from every child
// environment so the process under test cannot pick up the
// invoking user's identity or tool configuration.
var defaultDropped = []string{
	"EMAIL",
	"USER",
	"XDG_CONFIG_HOME",
	"GIT_AUTHOR_NAME",
	"GIT_AUTHOR_EMAIL",
	"GIT_COMMITTER_NAME",
	"GIT_COMMITTER_EMAIL",
	"MSYSTEM",
}

// Scrubber builds the controlled environment handed to
// processes under test: a base environment with identity and
// configuration variables dropped and sandbox-local values
// pinned in their place.
type Scrubber struct {
	dropped map[string]bool
	pins    map[string]string
}

// NewScrubber creates a Scrubber with the default drop list
// and HOME pinned to the given sandbox home directory.
func NewScrubber(home string) *Scrubber {
	s := &Scrubber{
		dropped: make(map[string]bool),
		pins:    make(map[string]string),
	}
	for _, name := range defaultDropped {
		s.dropped[name] = true
	}
	s.pins["HOME"] = home
	return s
}

// Drop removes additional variables from every environment the
// scrubber produces.
func (s *Scrubber) Drop(names ...string) *Scrubber {
	for _, name := range names {
		s.dropped[name] = true
	}
	return s
}

// Pin forces a variable to a fixed value in every environment
// the scrubber produces. Pinning wins over dropping.
func (s *Scrubber) Pin(key, value string) *Scrubber {
	s.pins[key] = value
	return s
}

// Apply filters the base environment ("KEY=value" entries),
// removing dropped variables, then appends the pinned values
// in sorted key order so the result is deterministic.
func (s *Scrubber) Apply(base []string) []string {
	out := make([]string, 0, len(base)+len(s.pins))
	for _, entry := range base {
		key := entry
		if i := strings.IndexByte(entry, '='); i >= 0 {
			key = entry[:i]
		}
		if s.dropped[key] {
			continue
		}
		if _, pinned := s.pins[key]; pinned {
			continue
		}
		out = append(out, entry)
	}

	keys := make([]string, 0, len(s.pins))
	for k := range s.pins {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+s.pins[k])
	}
	return out
}
