// Package dashboard keeps the operator's view of the multiplier job in sync
// with the remote service. It owns the current snapshot, the row edit state
// and the add-employee form, and coordinates every write with a refresh.
package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Tiliavir/hdash/internal/gateway"
	"github.com/Tiliavir/hdash/internal/model"
)

// API is the full dashboard API used by Dashboard.
type API interface {
	Reader
	AddEmployee(ctx context.Context, externalID string) (*model.Employee, error)
	PatchEmployee(ctx context.Context, id string, patch model.EmployeePatch) error
	DeleteEmployee(ctx context.Context, id string) error
	PutConfig(ctx context.Context, cfg model.Config) error
	TriggerRun(ctx context.Context, opts gateway.TriggerOptions) error
}

// Notifier surfaces a failed write to the operator and blocks until it
// has been acknowledged.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify calls f.
func (f NotifierFunc) Notify(message string) { f(message) }

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Options configures a Dashboard. Nil fields get quiet defaults: no
// notifications, every confirmation declined, slog.Default for logging.
type Options struct {
	Logger    *slog.Logger
	Notifier  Notifier
	Confirmer Confirmer
	// LogLimit is the number of log lines kept in the snapshot.
	LogLimit int
}

// Dashboard is the synchronization and mutation core.
type Dashboard struct {
	api       API
	fetcher   *Fetcher
	logger    *slog.Logger
	notifier  Notifier
	confirmer Confirmer
	metrics   *instruments

	// cycle serialises fetch cycles so no two run against the snapshot at
	// once.
	cycle sync.Mutex

	mu        sync.Mutex
	snap      model.Snapshot
	edit      EditState
	form      AddForm
	observers []func(model.Snapshot)
}

// New creates a Dashboard with an empty initial snapshot.
func New(api API, opts Options) *Dashboard {
	d := &Dashboard{
		api:       api,
		fetcher:   NewFetcher(api, opts.LogLimit),
		logger:    opts.Logger,
		notifier:  opts.Notifier,
		confirmer: opts.Confirmer,
		metrics:   newInstruments(),
		snap: model.Snapshot{
			Employees: []model.Employee{},
			Logs:      []model.LogEntry{},
		},
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.notifier == nil {
		d.notifier = NotifierFunc(func(string) {})
	}
	if d.confirmer == nil {
		d.confirmer = ConfirmerFunc(func(string) bool { return false })
	}
	return d
}

// Snapshot returns a copy of the current snapshot.
func (d *Dashboard) Snapshot() model.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap.Clone()
}

// Edit returns the current row edit state.
func (d *Dashboard) Edit() EditState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.edit
}

// AddForm returns the current add-employee form state.
func (d *Dashboard) AddForm() AddForm {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

// OnSnapshot registers fn to be called with every committed snapshot.
func (d *Dashboard) OnSnapshot(fn func(model.Snapshot)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

// Guard runs commit only if the caller still wants the result, and
// reports whether it did.
type Guard func(commit func()) bool

// Refresh runs one fetch cycle, waiting for any cycle already in flight,
// and commits the result.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.refresh(ctx, nil)
}

// refresh waits for any cycle in flight and then runs one, committing
// through guard when it is set.
func (d *Dashboard) refresh(ctx context.Context, guard Guard) error {
	d.cycle.Lock()
	defer d.cycle.Unlock()
	return d.runCycle(ctx, guard)
}

// TryRefresh runs one fetch cycle unless another is in flight, in which
// case it returns false without doing anything. The result is committed
// only through guard.
func (d *Dashboard) TryRefresh(ctx context.Context, guard Guard) (bool, error) {
	if !d.cycle.TryLock() {
		d.metrics.skip(ctx)
		d.logger.Debug("fetch cycle skipped, previous cycle still running")
		return false, nil
	}
	defer d.cycle.Unlock()
	return true, d.runCycle(ctx, guard)
}

func (d *Dashboard) runCycle(ctx context.Context, guard Guard) error {
	prev := d.Snapshot()
	next, report, err := d.fetcher.Fetch(ctx, prev)
	if err != nil {
		d.metrics.cycle(ctx, "transport_error")
		d.logger.Warn("fetch cycle failed, keeping previous snapshot", "err", err)
		return err
	}

	// Observers run after guard returns so they may call back into
	// whatever guard locks.
	var observers []func(model.Snapshot)
	commit := func() { observers = d.apply(next) }
	if guard != nil {
		if !guard(commit) {
			d.metrics.cycle(ctx, "discarded")
			d.logger.Debug("fetch cycle result discarded after stop")
			return nil
		}
	} else {
		commit()
	}
	notify(observers, next)

	if report.Degraded() {
		d.metrics.cycle(ctx, "degraded")
		for _, name := range report.Stale {
			d.logger.Warn("resource fetch failed, keeping previous value",
				"resource", name, "err", report.Errors[name])
		}
	} else {
		d.metrics.cycle(ctx, "ok")
	}
	return nil
}

// apply replaces the snapshot, evicts an edit whose row disappeared and
// returns the observers to notify.
func (d *Dashboard) apply(next model.Snapshot) []func(model.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snap = next
	d.edit = d.edit.Evict(next.Employees)
	return append([]func(model.Snapshot){}, d.observers...)
}

func notify(observers []func(model.Snapshot), next model.Snapshot) {
	for _, fn := range observers {
		fn(next.Clone())
	}
}

// GenericFailure is shown when a failed write carried no server detail.
const GenericFailure = "request failed"

// failureMessage is the text shown to the operator for a failed write.
func failureMessage(err error) string {
	if detail := gateway.Detail(err); detail != "" {
		return detail
	}
	return GenericFailure
}

// failed surfaces a write failure and leaves all local state untouched.
func (d *Dashboard) failed(ctx context.Context, op string, err error) error {
	d.metrics.mutation(ctx, op, "error")
	d.logger.Warn("write failed", "op", op, "err", err)
	d.notifier.Notify(failureMessage(err))
	return err
}

// succeeded records a successful write and runs exactly one refresh cycle.
// A failed refresh is already logged by the cycle; the write itself stands.
func (d *Dashboard) succeeded(ctx context.Context, op string) error {
	d.metrics.mutation(ctx, op, "ok")
	_ = d.Refresh(ctx)
	return nil
}
