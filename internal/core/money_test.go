package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"12.5", 1250, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"+3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.cents {
				t.Fatalf("%q expected %d cents, got %d (err=%v)", tc.in, tc.cents, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1250, "12.50"},
		{100, "1.00"},
		{1, "0.01"},
		{123456, "1234.56"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestParseAmountRoundTrip(t *testing.T) {
	// "12.5" must be submitted to the backend as "12.50".
	m, err := ParseAmount("12.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.String(); got != "12.50" {
		t.Fatalf("expected 12.50, got %q", got)
	}
}
