package jsondiff

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// SplitFragments splits an expected-JSON blob into its
// documents. Successive documents are separated by one blank
// line; each fragment is parsed independently by the caller.
func SplitFragments(blob string) []string {
	return strings.Split(blob, "\n\n")
}

// Render pretty-prints a decoded value for failure reports.
func Render(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

// Canonical renders a decoded value in RFC 8785 canonical
// form: sorted object keys, shortest number form, no
// insignificant whitespace. Reports use it for the narrow
// mismatching parts so two runs of the same failure always
// print byte-identical text.
func Canonical(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	canon, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return string(raw)
	}
	return string(canon)
}
