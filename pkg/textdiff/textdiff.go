// Package textdiff aligns an actual multi-line text block
// against an expected multi-line pattern block and reports
// per-line discrepancies. Five matching modes are derived from
// one positional core primitive: exact, contains (a contiguous
// window at any offset), contains-with-count, not-contains,
// and unordered multiset matching. Individual lines are
// compared with the pattern wildcard matcher, so every mode
// understands [..] and status tokens.
package textdiff

import (
	"fmt"
	"strings"

	"digital.vasic.harness/pkg/pattern"
)

// ChangeKind classifies one per-position discrepancy.
type ChangeKind string

const (
	// ChangeMismatch means both sides have a line at this
	// position and they do not match.
	ChangeMismatch ChangeKind = "mismatch"
	// ChangeExtra means the actual side has a line with no
	// expected counterpart.
	ChangeExtra ChangeKind = "extra"
	// ChangeMissing means the expected side has a line with
	// no actual counterpart.
	ChangeMissing ChangeKind = "missing"
)

// Change is one discrepancy between an expected pattern line
// and an actual output line. Line is the position within the
// compared window, starting at zero.
type Change struct {
	Line     int
	Kind     ChangeKind
	Expected string
	Actual   string
}

// String renders the discrepancy in the two-row diff layout
// used by failure reports: the expected line marked "-", the
// actual line marked "+", absent sides left blank.
func (c Change) String() string {
	switch c.Kind {
	case ChangeExtra:
		return fmt.Sprintf(
			"%3d -\n    + |%s|\n", c.Line, c.Actual)
	case ChangeMissing:
		return fmt.Sprintf(
			"%3d - |%s|\n    +\n", c.Line, c.Expected)
	default:
		return fmt.Sprintf(
			"%3d - |%s|\n    + |%s|\n",
			c.Line, c.Expected, c.Actual)
	}
}

// Diff pairs actual and expected lines positionally and
// returns every discrepancy, in order. The shorter side is
// padded so a length mismatch is itself reported. When partial
// is true, actual is first truncated to expected's length, so
// the comparison only looks at a window the size of the
// expectation and trailing actual lines are not discrepancies.
// An empty result means the two blocks match for purposes of
// this call.
func Diff(actual, expected []string, partial bool) []Change {
	if partial && len(actual) > len(expected) {
		actual = actual[:len(expected)]
	}

	var changes []Change
	for i := 0; i < len(actual) || i < len(expected); i++ {
		switch {
		case i >= len(expected):
			changes = append(changes, Change{
				Line:   i,
				Kind:   ChangeExtra,
				Actual: actual[i],
			})
		case i >= len(actual):
			changes = append(changes, Change{
				Line:     i,
				Kind:     ChangeMissing,
				Expected: expected[i],
			})
		case !pattern.Matches(expected[i], actual[i]):
			changes = append(changes, Change{
				Line:     i,
				Kind:     ChangeMismatch,
				Expected: expected[i],
				Actual:   actual[i],
			})
		}
	}
	return changes
}

// Render joins discrepancies for a failure report. Each entry
// already ends in a newline, so records are separated by one
// blank line.
func Render(changes []Change) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "\n")
}
