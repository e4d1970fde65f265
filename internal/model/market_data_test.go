package model

import (
	"testing"
	"time"
)

func TestTimeframeDuration(t *testing.T) {
	testCases := []struct {
		desc     string
		input    Timeframe
		expected time.Duration
		ok       bool
	}{
		{"one minute", "1m", time.Minute, true},
		{"four hours", "4h", 4 * time.Hour, true},
		{"one day", "1d", 24 * time.Hour, true},
		{"one week", "1w", 7 * 24 * time.Hour, true},
		{"fifteen minutes", "15m", 15 * time.Minute, true},
		{"empty", "", 0, false},
		{"missing unit", "15", 0, false},
		{"unknown unit", "3x", 0, false},
		{"zero value", "0h", 0, false},
		{"negative value", "-1h", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			d, err := tc.input.Duration()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
			if d != tc.expected {
				t.Fatalf("duration mismatch! should be %v but got %v", tc.expected, d)
			}
		})
	}
}
