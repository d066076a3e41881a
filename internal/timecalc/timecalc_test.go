package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/hdash/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
		{-5400, "-1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0s"},
		{0.5, "30m"},
		{2.25, "2h 15m"},
		{10, "10h 0m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatHours(tt.hours)
		if got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestFormatMultiplier(t *testing.T) {
	if got := timecalc.FormatMultiplier(1.5); got != "x1.5" {
		t.Errorf("FormatMultiplier(1.5) = %q", got)
	}
	if got := timecalc.FormatMultiplier(2); got != "x2" {
		t.Errorf("FormatMultiplier(2) = %q", got)
	}
}

func TestFormatTime(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	ts := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)

	if got := timecalc.FormatTime(ts, berlin); got != "2026-02-27 10:00" {
		t.Errorf("FormatTime = %q, want 2026-02-27 10:00", got)
	}
	if got := timecalc.FormatTime(time.Time{}, berlin); got != "never" {
		t.Errorf("FormatTime(zero) = %q, want never", got)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	if got := timecalc.Relative(now.Add(90*time.Minute), now); got != "in 1h 30m" {
		t.Errorf("Relative(future) = %q", got)
	}
	if got := timecalc.Relative(now.Add(-45*time.Minute), now); got != "45m ago" {
		t.Errorf("Relative(past) = %q", got)
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := timecalc.ParseClock("01:30")
	if err != nil || h != 1 || m != 30 {
		t.Errorf("ParseClock(01:30) = %d, %d, %v", h, m, err)
	}
	for _, bad := range []string{"", "24:00", "12:60", "12", "a:b", "1:2:3"} {
		if _, _, err := timecalc.ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q): expected error", bad)
		}
	}
}
