package transform

import "strings"

// ProductLookup resolves product display names to catalog identifiers. Keys
// are normalized (lowercase + trim) at construction so that lookups are
// case- and edge-whitespace-insensitive. The lookup is immutable for the
// duration of one transform call.
type ProductLookup struct {
	byName map[string]int
}

// NewProductLookup builds a lookup from a name→id mapping as supplied by the
// product catalog. The input map is not retained.
func NewProductLookup(products map[string]int) *ProductLookup {
	byName := make(map[string]int, len(products))
	for name, id := range products {
		byName[normalizeProductName(name)] = id
	}
	return &ProductLookup{byName: byName}
}

// Resolve returns the identifier for a product name, applying the same
// normalization used for the map keys. Empty names never match.
func (l *ProductLookup) Resolve(name string) (int, bool) {
	key := normalizeProductName(name)
	if key == "" {
		return 0, false
	}
	id, ok := l.byName[key]
	return id, ok
}

// Len reports the number of distinct normalized names in the lookup.
func (l *ProductLookup) Len() int { return len(l.byName) }

func normalizeProductName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
