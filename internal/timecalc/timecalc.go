package timecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%s%dh %dm", sign, h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%s%dm", sign, m)
	}
	return fmt.Sprintf("%s%ds", sign, s)
}

// FormatHours formats fractional hours, as reported by the job, like "2h 30m".
func FormatHours(hours float64) string {
	return FormatDuration(int64(math.Round(hours * 3600)))
}

// FormatMultiplier renders a multiplier like "x1.5".
func FormatMultiplier(m float64) string {
	return "x" + strconv.FormatFloat(m, 'f', -1, 64)
}

// FormatTime renders an instant in loc as "2006-01-02 15:04". The zero time
// renders as "never".
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "never"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// Relative describes t relative to now, e.g. "in 3h 20m" or "45m ago".
func Relative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := int64(t.Sub(now).Seconds())
	if d >= 0 {
		return "in " + FormatDuration(d)
	}
	return FormatDuration(-d) + " ago"
}

// ParseClock parses a wall-clock time "HH:MM" (24h) into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q: want 0-23", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q: want 0-59", s)
	}
	return hour, minute, nil
}
