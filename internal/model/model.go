package model

import (
	"fmt"
	"strings"
	"time"
)

// Employee is a tracked person as reported by the remote service.
type Employee struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      *string    `json:"email,omitempty"`
	Multiplier float64    `json:"multiplier"`
	Active     bool       `json:"active"`
	CreatedAt  *Timestamp `json:"created_at,omitempty"`
}

// EmployeePatch is a partial employee update. Nil fields are not sent.
type EmployeePatch struct {
	Multiplier *float64 `json:"multiplier,omitempty"`
	Active     *bool    `json:"active,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (p EmployeePatch) Empty() bool {
	return p.Multiplier == nil && p.Active == nil
}

// Config is the job configuration singleton. It is always replaced as a whole.
type Config struct {
	RunHour           int     `json:"run_hour"`
	RunMinute         int     `json:"run_minute"`
	DefaultMultiplier float64 `json:"default_multiplier"`
	DryRun            bool    `json:"dry_run"`
}

// RunAt formats the scheduled run time as HH:MM.
func (c Config) RunAt() string {
	return fmt.Sprintf("%02d:%02d", c.RunHour, c.RunMinute)
}

// Log statuses reported by the job.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// LogEntry is one line of the job's operation log.
type LogEntry struct {
	ID            int64      `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	EmployeeName  string     `json:"employee_name"`
	Date          string     `json:"date"`
	OriginalHours float64    `json:"original_hours"`
	UpdatedHours  float64    `json:"updated_hours"`
	Status        string     `json:"status"`
	CreatedAt     *Timestamp `json:"created_at"`
}

// HoursAdded is the difference the job applied for this entry.
func (l LogEntry) HoursAdded() float64 {
	return l.UpdatedHours - l.OriginalHours
}

// Succeeded reports whether the job recorded the entry as successful.
func (l LogEntry) Succeeded() bool {
	return l.Status == StatusSuccess
}

// Stats are the aggregate counters shown at the top of the dashboard.
type Stats struct {
	TotalEmployees  int        `json:"total_employees"`
	ActiveEmployees int        `json:"active_employees"`
	LastRun         *Timestamp `json:"last_run"`
	NextRun         *Timestamp `json:"next_run"`
	HoursThisWeek   float64    `json:"total_hours_added_this_week"`
	HoursThisMonth  float64    `json:"total_hours_added_this_month"`
}

// Health is the payload of the service health endpoint.
type Health struct {
	Status    string     `json:"status"`
	Timestamp *Timestamp `json:"timestamp"`
}

// Timestamp is an instant decoded from the service's ISO-8601 strings.
// The service may omit the zone offset; such values are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 instant with or without a zone offset.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("cannot parse timestamp %q", s)
}

// UnmarshalJSON accepts quoted ISO-8601 strings. An empty string leaves the
// zero value.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes the instant as RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}
