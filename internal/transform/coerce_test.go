package transform

import (
	"math"
	"testing"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"int_string", "2", 2},
		{"float_string", "19.90", 19.9},
		{"negative", "-3", -3},
		{"scientific", "1e2", 100},
		{"padded", "  7.5 ", 7.5},
		{"int_value", 4, 4},
		{"float_value", 2.5, 2.5},
		{"int64_value", int64(9), 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToFloat(tt.in); got != tt.want {
				t.Fatalf("ToFloat(%#v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToFloat_Marker(t *testing.T) {
	for _, in := range []any{nil, "", "abc", "12,5", "2 units", true, []string{"2"}} {
		if got := ToFloat(in); !math.IsNaN(got) {
			t.Errorf("ToFloat(%#v) = %v, want NaN", in, got)
		}
	}
}
