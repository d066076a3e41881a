package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/hdash/internal/gateway"
	"github.com/Tiliavir/hdash/internal/model"
)

// ErrTransport is returned by Fetch when at least one read obtained no
// response. The previous snapshot is kept unchanged in that case.
var ErrTransport = errors.New("dashboard API unreachable")

// Reader is the read half of the dashboard API.
type Reader interface {
	Stats(ctx context.Context) (model.Stats, error)
	Employees(ctx context.Context) ([]model.Employee, error)
	Config(ctx context.Context) (model.Config, error)
	Logs(ctx context.Context, q gateway.LogQuery) ([]model.LogEntry, error)
}

// Resource names reported in CycleReport.
const (
	ResourceStats     = "stats"
	ResourceEmployees = "employees"
	ResourceConfig    = "config"
	ResourceLogs      = "logs"
)

// Result is the outcome of one read.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the read succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

func settle[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

// CycleReport describes which slices of a merged snapshot were left stale.
type CycleReport struct {
	Stale  []string
	Errors map[string]error
}

// Degraded reports whether any slice kept its previous value.
func (r CycleReport) Degraded() bool { return len(r.Stale) > 0 }

// Fetcher reads the four dashboard resources and merges them into a new
// snapshot.
type Fetcher struct {
	api      Reader
	logLimit int
	now      func() time.Time
}

// NewFetcher returns a Fetcher listing logLimit log lines per cycle
// (gateway.DefaultLogLimit when zero).
func NewFetcher(api Reader, logLimit int) *Fetcher {
	if logLimit <= 0 {
		logLimit = gateway.DefaultLogLimit
	}
	return &Fetcher{api: api, logLimit: logLimit, now: time.Now}
}

// Fetch issues all four reads concurrently and waits for every one to
// settle. A transport failure on any read fails the whole cycle and prev is
// returned as is. A non-success status only keeps that resource's slice
// from prev.
func (f *Fetcher) Fetch(ctx context.Context, prev model.Snapshot) (model.Snapshot, CycleReport, error) {
	var (
		stats     Result[model.Stats]
		employees Result[[]model.Employee]
		config    Result[model.Config]
		logs      Result[[]model.LogEntry]
	)

	// Each goroutine writes only its own result and never fails the group,
	// so one slow or failing read does not cancel its siblings.
	var g errgroup.Group
	g.Go(func() error {
		stats = settle(f.api.Stats(ctx))
		return nil
	})
	g.Go(func() error {
		employees = settle(f.api.Employees(ctx))
		return nil
	})
	g.Go(func() error {
		config = settle(f.api.Config(ctx))
		return nil
	})
	g.Go(func() error {
		logs = settle(f.api.Logs(ctx, gateway.LogQuery{Limit: f.logLimit}))
		return nil
	})
	_ = g.Wait()

	errs := map[string]error{
		ResourceStats:     stats.Err,
		ResourceEmployees: employees.Err,
		ResourceConfig:    config.Err,
		ResourceLogs:      logs.Err,
	}
	var transport []error
	for _, name := range []string{ResourceStats, ResourceEmployees, ResourceConfig, ResourceLogs} {
		if err := errs[name]; err != nil && gateway.IsTransport(err) {
			transport = append(transport, err)
		}
	}
	if len(transport) > 0 {
		return prev, CycleReport{Errors: errs}, fmt.Errorf("%w: %w", ErrTransport, errors.Join(transport...))
	}

	next := prev.Clone()
	report := CycleReport{Errors: map[string]error{}}
	stale := func(name string, err error) {
		report.Stale = append(report.Stale, name)
		report.Errors[name] = err
	}

	if stats.OK() {
		next.Stats = stats.Value
	} else {
		stale(ResourceStats, stats.Err)
	}
	if employees.OK() {
		next.Employees = append([]model.Employee{}, employees.Value...)
	} else {
		stale(ResourceEmployees, employees.Err)
	}
	if config.OK() {
		cfg := config.Value
		next.Config = &cfg
	} else {
		stale(ResourceConfig, config.Err)
	}
	if logs.OK() {
		next.Logs = append([]model.LogEntry{}, logs.Value...)
	} else {
		stale(ResourceLogs, logs.Err)
	}
	next.FetchedAt = f.now()

	return next, report, nil
}
