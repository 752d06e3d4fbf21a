package core

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{600.0, 600, false},
		{0.5, 0.5, false},
		{"12.34", 12.34, false},
		{" 12.34 ", 12.34, false},
		{"1e3", 1000, false},
		{"-5", -5, false}, // format ok, positivity is a separate rule
		{"0", 0, false},
		{"abc", 0, true},
		{"12,34", 0, true},
		{"", 0, true},
		{nil, 0, true},
		{true, 0, true},
		{[]any{1}, 0, true},
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("case %d expected error, got %v", i, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(0.01); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)}
	for i, f := range bads {
		if err := ValidateAmount(f); err == nil {
			t.Fatalf("case %d expected error for %v", i, f)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{150, "150"},
		{150.5, "150.5"},
		{57.97, "57.97"},
		{0.1, "0.1"},
		{100000, "100000"},
	}
	for i, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0}, // 1.005 is stored just below .005
		{2.675, 2.68},
		{57.555, 57.56},
		{-57.555, -57.56},
		{100, 100},
	}
	for i, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}
