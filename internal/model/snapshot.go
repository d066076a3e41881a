package model

import "time"

// Snapshot is one complete, merged view of the four dashboard resources.
// A Snapshot is never modified after it is built; callers get copies.
type Snapshot struct {
	Stats     Stats      `json:"stats"`
	Employees []Employee `json:"employees"`
	Config    *Config    `json:"config"`
	Logs      []LogEntry `json:"logs"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Employee returns the employee with the given id.
func (s Snapshot) Employee(id string) (Employee, bool) {
	for _, e := range s.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

// Clone returns a deep copy so that callers cannot mutate shared slices.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Employees != nil {
		out.Employees = append([]Employee(nil), s.Employees...)
	}
	if s.Logs != nil {
		out.Logs = append([]LogEntry(nil), s.Logs...)
	}
	if s.Config != nil {
		cfg := *s.Config
		out.Config = &cfg
	}
	return out
}
