package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"42", 0, 42},
		{"", 10, 10},
		{"x", 5, 5},
		{"-3", 0, -3},
		{"2.5", 7, 7},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.in, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d, want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestBoolDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{" on ", false, true},
		{"0", true, false},
		{"off", true, false},
		{"", true, true},
		{"maybe", false, false},
	}
	for _, tc := range cases {
		if got := BoolDefault(tc.in, tc.def); got != tc.want {
			t.Fatalf("BoolDefault(%q, %v) = %v, want %v", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(-1, 0, 10); got != 0 {
		t.Fatalf("clamp low: %d", got)
	}
	if got := ClampInt(99, 0, 10); got != 10 {
		t.Fatalf("clamp high: %d", got)
	}
	if got := ClampInt(5, 0, 10); got != 5 {
		t.Fatalf("clamp mid: %d", got)
	}
}
