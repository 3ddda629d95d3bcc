package transform

import (
	"math"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// dedupKey hashes the business key of a row: original date text, cleaned
// product name, coerced quantity, coerced price, cleaned store. Numeric
// fields are formatted from their coerced values so that "2" and "2.0"
// compare equal; unparseable numbers all collapse to the NaN token and only
// collide with other unparseable values on otherwise identical keys.
func dedupKey(row *Row) uint64 {
	var b strings.Builder
	b.WriteString(row.Work.String("fecha"))
	b.WriteByte('\x1f')
	b.WriteString(row.Work.String("producto"))
	b.WriteByte('\x1f')
	b.WriteString(formatKeyFloat(row.Quantity))
	b.WriteByte('\x1f')
	b.WriteString(formatKeyFloat(row.Price))
	b.WriteByte('\x1f')
	b.WriteString(row.Work.String("tienda"))
	return xxh3.HashString(b.String())
}

// markDuplicates flags every row whose key already appeared earlier in the
// batch. The first occurrence always survives; survivors keep their original
// order. Returns the number of rows flagged.
func markDuplicates(rows []*Row) int {
	seen := make(map[uint64]struct{}, len(rows))
	removed := 0
	for _, row := range rows {
		key := dedupKey(row)
		if _, dup := seen[key]; dup {
			row.Duplicate = true
			removed++
			continue
		}
		seen[key] = struct{}{}
	}
	return removed
}

func formatKeyFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
