package transform

import (
	"strings"
	"time"

	"ventas/pkg/records"
)

// OutputDateLayout is the canonical layout written into accepted rows.
const OutputDateLayout = "2006-01-02"

// dateLayouts are tried in order; the first layout that parses the full
// string wins. Ambiguous values such as "03/04/2024" therefore always resolve
// as day/month before month/day.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"01-02-2006",
	"2006/01/02",
}

// ParseDateFlexible resolves a date value against the fixed layout list.
// Nil, missing, and empty values are unresolved, not errors. The second
// return value reports whether the date resolved.
func ParseDateFlexible(v any) (time.Time, bool) {
	s := strings.TrimSpace(records.AsString(v))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
