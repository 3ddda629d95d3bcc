package transform

import "testing"

func TestCleanString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"empty", "", ""},
		{"plain", "Cafe Negro", "Cafe Negro"},
		{"edges", "  Cafe Negro  ", "Cafe Negro"},
		{"internal_runs", "Cafe   \t Negro", "Cafe Negro"},
		{"tabs_newlines", "\tCafe\nNegro\r\n", "Cafe Negro"},
		{"only_spaces", "    ", ""},
		{"numeric_value", 42, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanString(tt.in); got != tt.want {
				t.Fatalf("CleanString(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
