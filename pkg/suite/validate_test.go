package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanDocument(t *testing.T) {
	doc := &Document{
		Version: "1",
		Suite:   "clean",
		Cases: []CaseDoc{
			{ID: "a", Name: "A", Program: "tool"},
			{ID: "b", Name: "B", Command: "tool run"},
		},
	}
	assert.Empty(t, Validate(doc))
}

func TestValidate_MissingHeader(t *testing.T) {
	errs := Validate(&Document{})
	require.Len(t, errs, 2)
	assert.Equal(t, "version", errs[0].Field)
	assert.Equal(t, "suite", errs[1].Field)
	assert.Equal(t, -1, errs[0].Index)
}

func TestValidate_CaseProblems(t *testing.T) {
	doc := &Document{
		Version: "1",
		Suite:   "s",
		Cases: []CaseDoc{
			{ID: "", Name: "", Program: "tool"},
			{ID: "dup", Name: "First", Program: "tool"},
			{ID: "dup", Name: "Second", Program: "tool"},
			{ID: "none", Name: "No command"},
			{ID: "both", Name: "Both", Program: "tool", Command: "tool run"},
			{ID: "orphan-args", Name: "Args only", Command: "tool run",
				Args: []string{"-v"}},
		},
	}

	errs := Validate(doc)

	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Error())
	}
	assert.Contains(t, fields, "cases[0].id: case ID is required")
	assert.Contains(t, fields, "cases[0].name: case name is required")
	assert.Contains(t, fields, "cases[2].id: duplicate ID: dup")
	assert.Contains(t, fields,
		"cases[3].command: either program or command is required")
	assert.Contains(t, fields,
		"cases[4].command: program and command are mutually exclusive")
	assert.Contains(t, fields, "cases[5].args: args require program")
}

func TestValidationError_Format(t *testing.T) {
	withIndex := ValidationError{Field: "id", Message: "missing", Index: 3}
	assert.Equal(t, "cases[3].id: missing", withIndex.Error())

	topLevel := ValidationError{Field: "version", Message: "missing", Index: -1}
	assert.Equal(t, "version: missing", topLevel.Error())
}
