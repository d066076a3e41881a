// Package fakeapi is an in-memory stand-in for the dashboard API, used by
// tests to exercise the client against real HTTP round trips.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/Tiliavir/hdash/internal/model"
)

// Resource names used for fault injection and request counting.
const (
	Stats         = "stats"
	Employees     = "employees"
	Config        = "config"
	Logs          = "logs"
	AddEmployee   = "add-employee"
	PatchEmployee = "patch-employee"
	DeleteEmp     = "delete-employee"
	PutConfig     = "put-config"
	Trigger       = "trigger"
)

// Fault makes an endpoint misbehave.
type Fault struct {
	// Status, when non-zero, is returned instead of the normal response.
	Status int
	// Detail is sent as {"detail": ...} together with Status.
	Detail string
	// Drop closes the connection without writing a response.
	Drop bool
}

// Server is a fake dashboard API backed by in-memory state.
type Server struct {
	*httptest.Server

	Token string

	mu        sync.Mutex
	stats     model.Stats
	employees map[string]model.Employee
	config    model.Config
	logs      []model.LogEntry
	faults    map[string]Fault
	hits      map[string]int
	gate      chan struct{}
	lastAdd   string
	triggers  []triggerCall
}

type triggerCall struct {
	EmployeeID string
	Date       string
}

// New starts a fake server requiring the given bearer token.
func New(token string) *Server {
	s := &Server{
		Token:     token,
		employees: map[string]model.Employee{},
		config:    model.Config{RunHour: 1, RunMinute: 0, DefaultMultiplier: 1.5, DryRun: true},
		faults:    map[string]Fault{},
		hits:      map[string]int{},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.auth)
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "timestamp": "2026-02-27T09:00:00"})
	})
	r.Get("/api/stats", s.handle(Stats, s.getStats))
	r.Get("/api/employees", s.handle(Employees, s.listEmployees))
	r.Post("/api/employees", s.handle(AddEmployee, s.addEmployee))
	r.Patch("/api/employees/{id}", s.handle(PatchEmployee, s.patchEmployee))
	r.Delete("/api/employees/{id}", s.handle(DeleteEmp, s.deleteEmployee))
	r.Get("/api/config", s.handle(Config, s.getConfig))
	r.Put("/api/config", s.handle(PutConfig, s.putConfig))
	r.Get("/api/logs", s.handle(Logs, s.listLogs))
	r.Post("/api/trigger-update", s.handle(Trigger, s.trigger))
	return r
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.Token {
			writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Invalid authentication"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handle counts the request, waits on the gate, applies any fault and
// otherwise calls fn.
func (s *Server) handle(name string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[name]++
		fault, faulty := s.faults[name]
		gate := s.gate
		s.mu.Unlock()

		if gate != nil {
			<-gate
		}

		if faulty {
			if fault.Drop {
				if hj, ok := w.(http.Hijacker); ok {
					if conn, _, err := hj.Hijack(); err == nil {
						conn.Close()
						return
					}
				}
				panic(http.ErrAbortHandler)
			}
			if fault.Status != 0 {
				writeJSON(w, fault.Status, map[string]string{"detail": fault.Detail})
				return
			}
		}
		fn(w, r)
	}
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.TotalEmployees = len(s.employees)
	st.ActiveEmployees = 0
	for _, e := range s.employees {
		if e.Active {
			st.ActiveEmployees++
		}
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedEmployees())
}

func (s *Server) addEmployee(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EmployeeID string `json:"employee_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	id := body.EmployeeID
	if id == "" {
		id = r.URL.Query().Get("employee_id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAdd = id
	if _, exists := s.employees[id]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Employee already exists"})
		return
	}
	e := model.Employee{ID: id, Name: "Employee " + id, Multiplier: s.config.DefaultMultiplier, Active: true}
	s.employees[id] = e
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) patchEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch model.EmployeePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch.Empty() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "No fields to update"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Employee not found"})
		return
	}
	if patch.Multiplier != nil {
		e.Multiplier = *patch.Multiplier
	}
	if patch.Active != nil {
		e.Active = *patch.Active
	}
	s.employees[id] = e
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Employee not found"})
		return
	}
	delete(s.employees, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Employee deleted"})
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.config)
}

func (s *Server) putConfig(w http.ResponseWriter, r *http.Request) {
	var cfg model.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid config"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	employeeID := r.URL.Query().Get("employee_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.LogEntry{}
	for i := len(s.logs) - 1; i >= 0; i-- {
		if employeeID != "" && s.logs[i].EmployeeID != employeeID {
			continue
		}
		out = append(out, s.logs[i])
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) trigger(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := r.URL.Query()
	s.triggers = append(s.triggers, triggerCall{EmployeeID: q.Get("employee_id"), Date: q.Get("date")})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Update triggered"})
}

func (s *Server) sortedEmployees() []model.Employee {
	out := make([]model.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// PutEmployee seeds or replaces an employee.
func (s *Server) PutEmployee(e model.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

// RemoveEmployee deletes an employee behind the client's back.
func (s *Server) RemoveEmployee(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.employees, id)
}

// AppendLog adds a log line; the newest line is listed first.
func (s *Server) AppendLog(l model.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = int64(len(s.logs) + 1)
	}
	s.logs = append(s.logs, l)
}

// SetStats sets the week/month counters and run timestamps. Employee
// counts are always derived from the employee table.
func (s *Server) SetStats(st model.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = st
}

// SetConfig replaces the stored configuration.
func (s *Server) SetConfig(cfg model.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// SetFault makes the named endpoint misbehave until ClearFaults.
func (s *Server) SetFault(name string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[name] = f
}

// ClearFaults restores normal behaviour on every endpoint.
func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = map[string]Fault{}
}

// Hold blocks every counted endpoint until Release is called.
func (s *Server) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
}

// Release unblocks requests held by Hold.
func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

// Hits returns how many requests reached the named endpoint.
func (s *Server) Hits(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[name]
}

// LastAddedID returns the id received by the most recent add request.
func (s *Server) LastAddedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAdd
}

// Triggers returns the employee/date pairs of every trigger request.
func (s *Server) Triggers() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]string, len(s.triggers))
	for i, t := range s.triggers {
		out[i] = [2]string{t.EmployeeID, t.Date}
	}
	return out
}
