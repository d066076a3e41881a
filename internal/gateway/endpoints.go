package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Tiliavir/hdash/internal/model"
)

// DefaultLogLimit is the number of log lines the dashboard shows.
const DefaultLogLimit = 50

// Stats fetches the aggregate counters.
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var s model.Stats
	err := c.do(ctx, "get stats", http.MethodGet, "/api/stats", nil, nil, &s)
	return s, err
}

// Employees lists all employees known to the service.
func (c *Client) Employees(ctx context.Context) ([]model.Employee, error) {
	var out []model.Employee
	if err := c.do(ctx, "list employees", http.MethodGet, "/api/employees", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Employee{}
	}
	return out, nil
}

// Config fetches the job configuration.
func (c *Client) Config(ctx context.Context) (model.Config, error) {
	var cfg model.Config
	err := c.do(ctx, "get config", http.MethodGet, "/api/config", nil, nil, &cfg)
	return cfg, err
}

// LogQuery narrows a log listing. The zero value lists DefaultLogLimit lines.
type LogQuery struct {
	Limit      int
	Offset     int
	EmployeeID string
}

func (q LogQuery) values() url.Values {
	v := url.Values{}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	v.Set("limit", strconv.Itoa(limit))
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.EmployeeID != "" {
		v.Set("employee_id", q.EmployeeID)
	}
	return v
}

// Logs lists the most recent operation log lines, newest first.
func (c *Client) Logs(ctx context.Context, q LogQuery) ([]model.LogEntry, error) {
	var out []model.LogEntry
	if err := c.do(ctx, "list logs", http.MethodGet, "/api/logs", q.values(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.LogEntry{}
	}
	return out, nil
}

type addEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
}

// AddEmployee registers an employee by its external time-tracker id. The
// service fills in name, email and multiplier. The returned Employee is nil
// when the service answered 2xx without a body.
func (c *Client) AddEmployee(ctx context.Context, externalID string) (*model.Employee, error) {
	// The id goes in the body and the query string; deployed backends read
	// one or the other.
	q := url.Values{"employee_id": {externalID}}
	var out model.Employee
	if err := c.do(ctx, "add employee", http.MethodPost, "/api/employees", q, addEmployeeRequest{EmployeeID: externalID}, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

// PatchEmployee applies a partial update to one employee.
func (c *Client) PatchEmployee(ctx context.Context, id string, patch model.EmployeePatch) error {
	return c.do(ctx, "update employee", http.MethodPatch, employeePath(id), nil, patch, nil)
}

// DeleteEmployee removes an employee from the job.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, "delete employee", http.MethodDelete, employeePath(id), nil, nil, nil)
}

// PutConfig replaces the job configuration.
func (c *Client) PutConfig(ctx context.Context, cfg model.Config) error {
	return c.do(ctx, "update config", http.MethodPut, "/api/config", nil, cfg, nil)
}

// TriggerOptions optionally narrows a manual run to one employee or date.
type TriggerOptions struct {
	EmployeeID string
	Date       string
}

// TriggerRun asks the service to run the job now.
func (c *Client) TriggerRun(ctx context.Context, opts TriggerOptions) error {
	q := url.Values{}
	if opts.EmployeeID != "" {
		q.Set("employee_id", opts.EmployeeID)
	}
	if opts.Date != "" {
		q.Set("date", opts.Date)
	}
	return c.do(ctx, "trigger run", http.MethodPost, "/api/trigger-update", q, nil, nil)
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var h model.Health
	err := c.do(ctx, "health", http.MethodGet, "/api/health", nil, nil, &h)
	return h, err
}

func employeePath(id string) string {
	return fmt.Sprintf("/api/employees/%s", url.PathEscape(id))
}
