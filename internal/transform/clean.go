package transform

import (
	"strings"

	"ventas/pkg/records"
)

// CleanString normalizes a free-text field value: nil and missing values
// become the empty string, everything else is trimmed and internal whitespace
// runs collapse to a single space.
func CleanString(v any) string {
	s := records.AsString(v)
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}
