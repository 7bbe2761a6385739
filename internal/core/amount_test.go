package core

import (
	"math"
	"testing"
)

func TestParseAmountFilter(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"10", 10, true},
		{"10.5", 10.5, true},
		{" 7", 7, true},
		{"-3", -3, true},
		{"+4", 4, true},
		{".5", 0.5, true},
		{"1.", 1, true},
		{"1e2", 100, true},
		{"5e", 5, true},
		{"10abc", 10, true},
		{"1.2.3", 1.2, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{".", 0, false},
		{"e5", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmountFilter(tc.in)
		if ok != tc.ok {
			t.Fatalf("%q expected ok=%v, got %v", tc.in, tc.ok, ok)
		}
		if ok && got != tc.out {
			t.Fatalf("%q expected %v, got %v", tc.in, tc.out, got)
		}
	}
}

func TestParseAmountFilterInfinity(t *testing.T) {
	if v, ok := ParseAmountFilter("Infinity"); !ok || !math.IsInf(v, 1) {
		t.Fatalf("expected +Inf, got %v ok=%v", v, ok)
	}
	if v, ok := ParseAmountFilter("-Infinityx"); !ok || !math.IsInf(v, -1) {
		t.Fatalf("expected -Inf, got %v ok=%v", v, ok)
	}
	if v, ok := ParseAmountFilter("1e400"); !ok || !math.IsInf(v, 1) {
		t.Fatalf("expected overflow to +Inf, got %v ok=%v", v, ok)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{22, "22"},
		{15.5, "15.5"},
		{-7.25, "-7.25"},
		{0, "0"},
		{0.1 + 0.2, "0.30000000000000004"},
		{math.Inf(1), "Infinity"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.out {
			t.Fatalf("FormatAmount(%v) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
