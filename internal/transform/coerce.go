package transform

import (
	"math"
	"strconv"
	"strings"
)

// ToFloat coerces a value intended to be numeric into a float64. Values that
// cannot be interpreted as a number yield NaN so that a single bad cell marks
// its row instead of failing the batch.
func ToFloat(v any) float64 {
	switch t := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
