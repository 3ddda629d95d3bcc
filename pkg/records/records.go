// Package records defines the row representation shared by every stage of the
// pipeline: a map of column name to value as read from the source, mutated by
// transformers, and consumed by loaders.
package records

import (
	"fmt"
	"strconv"
	"time"
)

// Record is one row of semi-structured data keyed by column name. Values are
// typically string (as parsed from CSV), nil (missing cell), or a coerced
// numeric type.
type Record map[string]any

// Clone returns a shallow copy of the record. Values are not deep-copied;
// stages that derive new values must write them into the clone, never back
// into the source record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value for key rendered as a string. Missing keys and nil
// values render as "". Common scalar types avoid the fmt round trip.
func (r Record) String(key string) string {
	return AsString(r[key])
}

// AsString converts common value types to their canonical string form.
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
