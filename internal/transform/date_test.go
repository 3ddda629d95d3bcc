package transform

import (
	"testing"
	"time"
)

func TestParseDateFlexible_Layouts(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
	}{
		{"iso", "2024-01-15"},
		{"dmy_slash", "15/01/2024"},
		{"dmy_dash", "15-01-2024"},
		{"ymd_slash", "2024/01/15"},
		{"padding_optional", "15/1/2024"},
		{"surrounding_space", "  2024-01-15  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateFlexible(tt.in)
			if !ok {
				t.Fatalf("ParseDateFlexible(%q) unresolved", tt.in)
			}
			if !got.Equal(want) {
				t.Fatalf("ParseDateFlexible(%q) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

// Ambiguous day/month values resolve on the first matching layout, which puts
// day before month. This ordering is part of the contract.
func TestParseDateFlexible_Ambiguous(t *testing.T) {
	got, ok := ParseDateFlexible("03/04/2024")
	if !ok {
		t.Fatal("unresolved")
	}
	want := time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ambiguous date = %v, want day-first %v", got, want)
	}
}

func TestParseDateFlexible_Unresolved(t *testing.T) {
	for _, in := range []any{nil, "", "   ", "2024-13-45", "not a date", "15.01.2024", "2024-01-15T10:00:00Z"} {
		if _, ok := ParseDateFlexible(in); ok {
			t.Errorf("ParseDateFlexible(%#v) resolved, want unresolved", in)
		}
	}
}

func TestParseDateFlexible_Deterministic(t *testing.T) {
	a, okA := ParseDateFlexible("05/06/2024")
	b, okB := ParseDateFlexible("05/06/2024")
	if okA != okB || !a.Equal(b) {
		t.Fatalf("same input resolved differently: %v/%v vs %v/%v", a, okA, b, okB)
	}
}
