// Package pattern implements the expected-output pattern
// mini-language: plain text with the [..] wildcard marker,
// which matches any substring (including the empty one) within
// a single line, plus a fixed set of bracketed status tokens
// expanded before matching. Patterns are plain data and are
// reinterpreted on every comparison call; nothing is compiled
// or cached.
package pattern

import "strings"

// Wildcard is the marker that matches any substring, including
// the empty one, within a single comparison unit.
const Wildcard = "[..]"

// Matches reports whether the actual line satisfies the
// expected pattern line.
//
// Both sides are normalized by replacing backslash path
// separators with forward slashes, so patterns stay platform
// independent. Macros in expected are expanded. The pattern is
// then split on the wildcard marker into literal segments: the
// first segment is anchored at the start of actual (a pattern
// beginning with a wildcard yields an empty first segment,
// which trivially anchors), every later segment consumes
// actual through the end of its first occurrence. Trailing
// actual text is allowed only when the pattern ends with a
// wildcard. A pattern with no wildcard is exact equality after
// normalization.
func Matches(expected, actual string) bool {
	expected = Expand(normalize(expected))
	actual = normalize(actual)

	for i, segment := range strings.Split(expected, Wildcard) {
		at := strings.Index(actual, segment)
		if at < 0 || (i == 0 && at != 0) {
			return false
		}
		actual = actual[at+len(segment):]
	}

	return actual == "" ||
		strings.HasSuffix(expected, Wildcard)
}

// normalize maps Windows path separators onto forward slashes
// so one pattern covers both platforms.
func normalize(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}
