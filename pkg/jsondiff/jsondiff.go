// Package jsondiff compares decoded JSON value trees for
// approximate equality. Expected strings go through the
// pattern wildcard matcher, the literal "{...}" stands for any
// subtree, arrays are compared as multisets, and objects must
// have identical key sets. Values are the standard decoded Go
// forms: nil, bool, float64, string, []any, map[string]any.
package jsondiff

import (
	"sort"

	"digital.vasic.harness/pkg/pattern"
)

// SubtreeWildcard is the expected-side string literal that
// matches any actual value, including whole nested objects and
// arrays.
const SubtreeWildcard = "{...}"

// Mismatch carries the smallest pair of sub-values that failed
// to match, for diagnostics.
type Mismatch struct {
	Expected any
	Actual   any
}

// FindMismatch recursively compares the expected tree against
// the actual tree and returns nil when they match
// approximately. On failure it returns the narrowest
// mismatching pair it found.
//
// Numbers compare numerically, booleans by identity, and null
// only matches null. An expected string is first checked for
// the subtree wildcard, then matched against an actual string
// with the wildcard line matcher, so [..] works inside JSON
// string fields. Arrays must have equal length and pair up
// greedily without regard to element order. Objects must have
// set-equal keys; any key-set difference is reported at whole
// object granularity, otherwise the first mismatching key in
// sorted order is reported. Every other type pairing is a
// mismatch.
func FindMismatch(expected, actual any) *Mismatch {
	switch want := expected.(type) {
	case nil:
		if actual == nil {
			return nil
		}
	case bool:
		if got, ok := actual.(bool); ok && got == want {
			return nil
		}
	case float64:
		if got, ok := actual.(float64); ok && got == want {
			return nil
		}
	case string:
		if want == SubtreeWildcard {
			return nil
		}
		if got, ok := actual.(string); ok &&
			pattern.Matches(want, got) {
			return nil
		}
	case []any:
		if got, ok := actual.([]any); ok {
			return matchArrays(want, got)
		}
	case map[string]any:
		if got, ok := actual.(map[string]any); ok {
			return matchObjects(want, got)
		}
	}
	return &Mismatch{Expected: expected, Actual: actual}
}

// matchArrays pairs expected elements with actual elements one
// to one, order independent: each expected element consumes
// the first remaining actual element it matches. Length must
// be equal up front. On failure the first expected element
// left without a partner is reported against the first actual
// element nothing consumed.
func matchArrays(expected, actual []any) *Mismatch {
	if len(expected) != len(actual) {
		return &Mismatch{Expected: expected, Actual: actual}
	}

	remaining := make([]any, len(actual))
	copy(remaining, actual)

	var unmatched []any
	for _, want := range expected {
		found := -1
		for i, got := range remaining {
			if FindMismatch(want, got) == nil {
				found = i
				break
			}
		}
		if found < 0 {
			unmatched = append(unmatched, want)
			continue
		}
		remaining = append(
			remaining[:found], remaining[found+1:]...)
	}

	if len(unmatched) > 0 {
		return &Mismatch{
			Expected: unmatched[0],
			Actual:   remaining[0],
		}
	}
	return nil
}

// matchObjects requires set-equal keys, then compares shared
// keys in sorted order and reports the first value mismatch.
func matchObjects(expected, actual map[string]any) *Mismatch {
	if len(expected) != len(actual) {
		return &Mismatch{Expected: expected, Actual: actual}
	}
	for key := range expected {
		if _, ok := actual[key]; !ok {
			return &Mismatch{
				Expected: expected, Actual: actual}
		}
	}

	keys := make([]string, 0, len(expected))
	for key := range expected {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if m := FindMismatch(
			expected[key], actual[key]); m != nil {
			return m
		}
	}
	return nil
}
