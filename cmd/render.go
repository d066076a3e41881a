package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/hdash/internal/model"
	"github.com/Tiliavir/hdash/internal/timecalc"
)

// timeOf returns the instant behind an optional timestamp, zero when nil.
func timeOf(ts *model.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.Time
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

// printStats prints the summary block shown by `hdash status`.
func printStats(w io.Writer, s model.Stats, now time.Time) {
	fmt.Fprintf(w, "Employees:   %d active of %d\n", s.ActiveEmployees, s.TotalEmployees)

	last := timecalc.FormatTime(timeOf(s.LastRun), time.Local)
	if rel := timecalc.Relative(timeOf(s.LastRun), now); rel != "" {
		last += " (" + rel + ")"
	}
	fmt.Fprintf(w, "Last run:    %s\n", last)

	next := timecalc.FormatTime(timeOf(s.NextRun), time.Local)
	if rel := timecalc.Relative(timeOf(s.NextRun), now); rel != "" {
		next += " (" + rel + ")"
	}
	fmt.Fprintf(w, "Next run:    %s\n", next)
	fmt.Fprintf(w, "Added:       %s this week, %s this month\n",
		timecalc.FormatHours(s.HoursThisWeek), timecalc.FormatHours(s.HoursThisMonth))
}

// printConfig prints the job configuration, or a placeholder when it could
// not be read.
func printConfig(w io.Writer, c *model.Config) {
	if c == nil {
		fmt.Fprintln(w, "Config:      unavailable")
		return
	}
	mode := "live"
	if c.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(w, "Schedule:    daily at %s (%s), default %s\n",
		c.RunAt(), mode, timecalc.FormatMultiplier(c.DefaultMultiplier))
}

// printEmployees prints one line per employee. The row being edited shows
// its draft next to the saved multiplier.
func printEmployees(w io.Writer, employees []model.Employee, edit EditView) {
	if len(employees) == 0 {
		fmt.Fprintln(w, "No employees.")
		return
	}
	for _, e := range employees {
		name := e.Name
		if e.Email != nil && *e.Email != "" {
			name += " <" + *e.Email + ">"
		}
		mult := timecalc.FormatMultiplier(e.Multiplier)
		if id, draft, ok := edit.Editing(); ok && id == e.ID {
			mult += " -> " + timecalc.FormatMultiplier(draft)
		}
		fmt.Fprintf(w, "%-12s  %-8s  %-8s  %s\n", e.ID, mult, activeLabel(e.Active), name)
	}
}

// EditView is the read side of the row edit state.
type EditView interface {
	Editing() (id string, draft float64, ok bool)
}

// printLogs groups log entries by run date, newest first as received.
func printLogs(w io.Writer, logs []model.LogEntry) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No log entries.")
		return
	}

	var currentDay string
	for _, l := range logs {
		if l.Date != currentDay {
			fmt.Fprintln(w, l.Date)
			currentDay = l.Date
		}
		status := "ok  "
		if !l.Succeeded() {
			status = "FAIL"
		}
		at := ""
		if l.CreatedAt != nil {
			at = l.CreatedAt.In(time.Local).Format("15:04")
		}
		fmt.Fprintf(w, "  %s %5s  %-20s %s → %s (%s)\n", status, at, l.EmployeeName,
			timecalc.FormatHours(l.OriginalHours), timecalc.FormatHours(l.UpdatedHours),
			signedHours(l.HoursAdded()))
	}
}

func signedHours(h float64) string {
	if h < 0 {
		return timecalc.FormatHours(h)
	}
	return "+" + timecalc.FormatHours(h)
}
