package textdiff

import "strings"

// SplitLines splits captured output into lines. The empty
// string has no lines, and a single trailing newline does not
// produce a final empty line, so `"a\n"` and `"a"` split
// identically.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// Normalize prepares captured output text for comparison:
// carriage returns are stripped so \r\n and \n line endings
// compare identically, and tabs become the visible placeholder
// "<tab>" so pattern authors see them explicitly.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\t", "<tab>")
}
