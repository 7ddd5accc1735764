package textdiff

import "digital.vasic.harness/pkg/pattern"

// Exact compares the two blocks positionally with no offset
// and no truncation. The blocks match only when the result is
// empty.
func Exact(actual, expected []string) []Change {
	return Diff(actual, expected, false)
}

// Contains reports whether the expected block occurs as a
// contiguous run somewhere in actual. Every starting offset is
// tried in order, including the empty tail, and the first
// window with no discrepancies wins; no attempt is made to
// find a best or left-most alignment beyond that.
func Contains(actual, expected []string) bool {
	for offset := 0; offset <= len(actual); offset++ {
		if len(Diff(actual[offset:], expected, true)) == 0 {
			return true
		}
	}
	return false
}

// Count returns how many starting offsets yield a window with
// no discrepancies. Overlapping windows are counted
// independently.
func Count(actual, expected []string) int {
	matches := 0
	for offset := 0; offset <= len(actual); offset++ {
		if len(Diff(actual[offset:], expected, true)) == 0 {
			matches++
		}
	}
	return matches
}

// NotContains reports whether the expected block occurs at no
// offset of actual. It is the exact negation of Contains for
// the same inputs.
func NotContains(actual, expected []string) bool {
	return !Contains(actual, expected)
}

// UnorderedMismatch describes why a multiset comparison
// failed: either an expected line found no partner
// (MissingExpected is set and Remaining holds the unconsumed
// pool), or actual lines were left over after every expected
// line was consumed (ExtraActual).
type UnorderedMismatch struct {
	MissingExpected string
	Remaining       []string
	ExtraActual     []string
}

// Unordered matches expected against actual as a multiset:
// each expected line, in order, consumes the first remaining
// actual line the wildcard matcher accepts. It returns nil
// when every expected line consumed a distinct actual line and
// no actual lines remain; extra, undeclared output is itself a
// mismatch in this mode.
func Unordered(actual, expected []string) *UnorderedMismatch {
	pool := make([]string, len(actual))
	copy(pool, actual)

	for _, want := range expected {
		found := -1
		for i, line := range pool {
			if pattern.Matches(want, line) {
				found = i
				break
			}
		}
		if found < 0 {
			return &UnorderedMismatch{
				MissingExpected: want,
				Remaining:       pool,
			}
		}
		pool = append(pool[:found], pool[found+1:]...)
	}

	if len(pool) > 0 {
		return &UnorderedMismatch{ExtraActual: pool}
	}
	return nil
}
