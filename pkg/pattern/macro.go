package pattern

import (
	"runtime"
	"strings"
)

// macros maps bracketed status tokens to the literal text the
// tool under test prints. Status words are right-aligned to a
// twelve column gutter, matching the tool's own formatting, so
// expected patterns can be written without counting spaces.
// Tokens never overlap, so replacement order does not matter.
var macros = [...]struct {
	token string
	text  string
}{
	{"[RUNNING]", "     Running"},
	{"[COMPILING]", "   Compiling"},
	{"[CHECKING]", "    Checking"},
	{"[CREATED]", "     Created"},
	{"[FINISHED]", "    Finished"},
	{"[ERROR]", "error:"},
	{"[WARNING]", "warning:"},
	{"[DOCUMENTING]", " Documenting"},
	{"[FRESH]", "       Fresh"},
	{"[UPDATING]", "    Updating"},
	{"[ADDING]", "      Adding"},
	{"[REMOVING]", "    Removing"},
	{"[DOCTEST]", "   Doc-tests"},
	{"[PACKAGING]", "   Packaging"},
	{"[DOWNLOADING]", " Downloading"},
	{"[UPLOADING]", "   Uploading"},
	{"[VERIFYING]", "   Verifying"},
	{"[ARCHIVING]", "   Archiving"},
	{"[INSTALLING]", "  Installing"},
	{"[REPLACING]", "   Replacing"},
	{"[UNPACKING]", "   Unpacking"},
	{"[SUMMARY]", "     Summary"},
	{"[FIXING]", "      Fixing"},
}

// ExeSuffix returns the platform executable-file suffix:
// ".exe" on Windows, empty everywhere else. The [EXE] token
// expands to this value.
func ExeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// Expand rewrites every status token in s into its literal
// text and [EXE] into the platform executable suffix. There is
// no escaping mechanism: a token embedded as plain text cannot
// be expressed literally in an expected pattern.
func Expand(s string) string {
	for _, m := range macros {
		s = strings.ReplaceAll(s, m.token, m.text)
	}
	return strings.ReplaceAll(s, "[EXE]", ExeSuffix())
}
