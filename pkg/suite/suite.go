// Package suite loads declarative scenario suites from YAML
// and compiles them into executable scenarios. A suite
// document names the suite, sets defaults, and lists cases;
// each case binds fixture files, a command and an expectation
// block mirroring the expect builder.
package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"digital.vasic.harness/pkg/expect"
	"digital.vasic.harness/pkg/fixture"
	"digital.vasic.harness/pkg/sandbox"
	"digital.vasic.harness/pkg/scenario"
)

// Document is the YAML shape of a suite file.
type Document struct {
	Version  string      `yaml:"version"`
	Suite    string      `yaml:"suite"`
	Defaults DefaultsDoc `yaml:"defaults"`
	Cases    []CaseDoc   `yaml:"cases"`
}

// DefaultsDoc holds values applied to every case that does not
// override them. Durations are parsed with time.ParseDuration.
type DefaultsDoc struct {
	Timeout     string            `yaml:"timeout,omitempty"`
	IdleTimeout string            `yaml:"idle_timeout,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
}

// CaseDoc is one declarative case. The command is given either
// as a program plus argument list or as a single command line
// split on whitespace.
type CaseDoc struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Tags        []string          `yaml:"tags,omitempty"`
	Files       []FileDoc         `yaml:"files,omitempty"`
	Txtar       string            `yaml:"txtar,omitempty"`
	Symlinks    []SymlinkDoc      `yaml:"symlinks,omitempty"`
	Dir         string            `yaml:"dir,omitempty"`
	Program     string            `yaml:"program,omitempty"`
	Args        []string          `yaml:"args,omitempty"`
	Command     string            `yaml:"command,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	Timeout     string            `yaml:"timeout,omitempty"`
	IdleTimeout string            `yaml:"idle_timeout,omitempty"`
	Expect      *ExpectDoc        `yaml:"expect,omitempty"`
}

// FileDoc declares one fixture file.
type FileDoc struct {
	Path string `yaml:"path"`
	Body string `yaml:"body"`
}

// SymlinkDoc declares one fixture symlink.
type SymlinkDoc struct {
	Target string `yaml:"target"`
	Link   string `yaml:"link"`
}

// ExpectDoc mirrors the expect builder, one field per check
// kind. List fields declare the check once per entry.
type ExpectDoc struct {
	ExitCode          *int       `yaml:"exit_code,omitempty"`
	Stdout            *string    `yaml:"stdout,omitempty"`
	Stderr            *string    `yaml:"stderr,omitempty"`
	StdoutContains    []string   `yaml:"stdout_contains,omitempty"`
	StderrContains    []string   `yaml:"stderr_contains,omitempty"`
	EitherContains    []string   `yaml:"either_contains,omitempty"`
	StdoutContainsN   []CountDoc `yaml:"stdout_contains_n,omitempty"`
	StdoutNotContains []string   `yaml:"stdout_not_contains,omitempty"`
	StderrNotContains []string   `yaml:"stderr_not_contains,omitempty"`
	StderrUnordered   []string   `yaml:"stderr_unordered,omitempty"`
	NeitherContains   []string   `yaml:"neither_contains,omitempty"`
	JSON              []string   `yaml:"json,omitempty"`
}

// CountDoc pairs a pattern with a required occurrence count.
type CountDoc struct {
	Pattern string `yaml:"pattern"`
	Count   int    `yaml:"count"`
}

// Suite is a named collection of compiled scenarios in
// document order.
type Suite struct {
	Name      string
	Scenarios []*scenario.Scenario
}

// Load parses and compiles a suite document. Unknown YAML
// fields are rejected. The first validation problem aborts
// compilation; Validate reports all of them.
func Load(data []byte) (*Suite, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// LoadFile reads and compiles a suite file.
func LoadFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file %s: %w", path, err)
	}
	s, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("suite file %s: %w", path, err)
	}
	return s, nil
}

// LoadDir compiles all .yaml and .yml files in a directory,
// in lexical order, into one Set.
func LoadDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read suite directory %s: %w", dir, err)
	}
	set := NewSet()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		s, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if err := set.AddSuite(s); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Parse decodes a suite document without compiling it.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("parse suite document: %w", err)
	}
	return &doc, nil
}

// Compile turns a parsed document into a Suite. The document
// is validated first; the first problem found is returned.
func Compile(doc *Document) (*Suite, error) {
	if errs := Validate(doc); len(errs) > 0 {
		return nil, errs[0]
	}
	s := &Suite{Name: doc.Suite}
	for i := range doc.Cases {
		sc, err := compileCase(&doc.Cases[i], &doc.Defaults)
		if err != nil {
			return nil, err
		}
		s.Scenarios = append(s.Scenarios, sc)
	}
	return s, nil
}

func compileCase(c *CaseDoc, d *DefaultsDoc) (*scenario.Scenario, error) {
	program := c.Program
	args := c.Args
	if c.Command != "" {
		parts, err := sandbox.SplitArgs(c.Command)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.ID, err)
		}
		if len(parts) == 0 {
			return nil, fmt.Errorf("case %s: empty command", c.ID)
		}
		program, args = parts[0], parts[1:]
	}

	timeout, err := pickDuration(c.Timeout, d.Timeout)
	if err != nil {
		return nil, fmt.Errorf("case %s: timeout: %w", c.ID, err)
	}
	idle, err := pickDuration(c.IdleTimeout, d.IdleTimeout)
	if err != nil {
		return nil, fmt.Errorf("case %s: idle_timeout: %w", c.ID, err)
	}

	env := make(map[string]string, len(d.Env)+len(c.Env))
	for k, v := range d.Env {
		env[k] = v
	}
	for k, v := range c.Env {
		env[k] = v
	}

	var fb *fixture.Builder
	if len(c.Files) > 0 || len(c.Symlinks) > 0 || c.Txtar != "" {
		fb = fixture.New("")
		for _, f := range c.Files {
			fb.File(f.Path, f.Body)
		}
		if c.Txtar != "" {
			fb.Txtar(c.Txtar)
		}
		for _, l := range c.Symlinks {
			fb.Symlink(l.Target, l.Link)
		}
	}

	return &scenario.Scenario{
		ID:          scenario.ID(c.ID),
		Name:        c.Name,
		Description: c.Description,
		Tags:        c.Tags,
		Fixture:     fb,
		Command: scenario.Command{
			Program: program,
			Args:    args,
			Dir:     c.Dir,
			Env:     env,
		},
		Expected:    CompileExpect(c.Expect),
		Timeout:     timeout,
		IdleTimeout: idle,
	}, nil
}

// CompileExpect turns a declarative expect block into an
// executable expectation. A nil document compiles to an
// expectation with no checks.
func CompileExpect(doc *ExpectDoc) *expect.Expectation {
	e := expect.New()
	if doc == nil {
		return e
	}
	if doc.ExitCode != nil {
		e.WithExitCode(*doc.ExitCode)
	}
	if doc.Stdout != nil {
		e.WithStdout(*doc.Stdout)
	}
	if doc.Stderr != nil {
		e.WithStderr(*doc.Stderr)
	}
	for _, p := range doc.StdoutContains {
		e.WithStdoutContains(p)
	}
	for _, p := range doc.StderrContains {
		e.WithStderrContains(p)
	}
	for _, p := range doc.EitherContains {
		e.WithEitherContains(p)
	}
	for _, cd := range doc.StdoutContainsN {
		e.WithStdoutContainsN(cd.Pattern, cd.Count)
	}
	for _, p := range doc.StdoutNotContains {
		e.WithStdoutNotContains(p)
	}
	for _, p := range doc.StderrNotContains {
		e.WithStderrNotContains(p)
	}
	for _, p := range doc.StderrUnordered {
		e.WithStderrUnordered(p)
	}
	for _, p := range doc.NeitherContains {
		e.WithNeitherContains(p)
	}
	for _, blob := range doc.JSON {
		e.WithJSON(blob)
	}
	return e
}

// pickDuration parses the case value, falling back to the
// default. Empty values mean zero.
func pickDuration(own, fallback string) (time.Duration, error) {
	raw := own
	if raw == "" {
		raw = fallback
	}
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	return d, nil
}
