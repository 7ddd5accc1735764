package suite

import "fmt"

// ValidationError describes one structural problem in a suite
// document.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not tied to a case
}

func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("cases[%d].%s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a parsed document and returns every problem
// found. An empty slice means the document compiles.
func Validate(doc *Document) []ValidationError {
	var errs []ValidationError

	if doc.Version == "" {
		errs = append(errs, ValidationError{
			Field: "version", Message: "version is required", Index: -1,
		})
	}
	if doc.Suite == "" {
		errs = append(errs, ValidationError{
			Field: "suite", Message: "suite name is required", Index: -1,
		})
	}

	ids := make(map[string]bool)
	for i, c := range doc.Cases {
		if c.ID == "" {
			errs = append(errs, ValidationError{
				Field: "id", Message: "case ID is required", Index: i,
			})
		} else if ids[c.ID] {
			errs = append(errs, ValidationError{
				Field: "id",
				Message: fmt.Sprintf("duplicate ID: %s", c.ID),
				Index:   i,
			})
		} else {
			ids[c.ID] = true
		}

		if c.Name == "" {
			errs = append(errs, ValidationError{
				Field: "name", Message: "case name is required", Index: i,
			})
		}

		hasProgram := c.Program != ""
		hasCommand := c.Command != ""
		switch {
		case !hasProgram && !hasCommand:
			errs = append(errs, ValidationError{
				Field:   "command",
				Message: "either program or command is required",
				Index:   i,
			})
		case hasProgram && hasCommand:
			errs = append(errs, ValidationError{
				Field:   "command",
				Message: "program and command are mutually exclusive",
				Index:   i,
			})
		}

		if len(c.Args) > 0 && !hasProgram {
			errs = append(errs, ValidationError{
				Field:   "args",
				Message: "args require program",
				Index:   i,
			})
		}
	}

	return errs
}
