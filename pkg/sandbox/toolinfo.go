package sandbox

import (
	"context"
	"fmt"
	"strings"
)

// ToolInfo describes the tool under test, probed once at
// startup and passed explicitly to whatever needs it. Nothing
// in this package or its callers keeps a process-global copy.
type ToolInfo struct {
	// Path is the binary the probe ran.
	Path string
	// Version is the version field of the report, when the
	// first line follows the usual "name version ..." shape.
	Version string
	// Raw is the first line of the version report.
	Raw string
}

// ProbeTool runs `path --version` and parses the report. Call
// it once and hand the value down; probing per use would make
// run behavior depend on ambient state.
func ProbeTool(ctx context.Context, path string) (*ToolInfo, error) {
	out, err := New(path, "--version").Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	if code, ok := out.Code(); !ok || code != 0 {
		return nil, fmt.Errorf(
			"probe %s: %s", path, out.State)
	}

	raw := strings.TrimSpace(string(out.Stdout))
	if raw == "" {
		raw = strings.TrimSpace(string(out.Stderr))
	}
	line, _, _ := strings.Cut(raw, "\n")

	info := &ToolInfo{Path: path, Raw: line}
	if fields := strings.Fields(line); len(fields) > 1 {
		info.Version = fields[1]
	}
	return info, nil
}

// IsNightly reports whether the probed tool is a nightly or
// dev build.
func (i *ToolInfo) IsNightly() bool {
	return strings.Contains(i.Raw, "-nightly") ||
		strings.Contains(i.Raw, "-dev")
}
