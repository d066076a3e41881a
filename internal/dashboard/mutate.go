package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tiliavir/hdash/internal/gateway"
	"github.com/Tiliavir/hdash/internal/model"
)

var (
	// ErrEmptyEmployeeID is returned when adding an employee without an id.
	ErrEmptyEmployeeID = errors.New("employee id is required")
	// ErrUnknownEmployee is returned when an action names an employee that
	// is not in the current snapshot.
	ErrUnknownEmployee = errors.New("employee not in current snapshot")
)

// Write operation names used for logging and metrics.
const (
	opAdd     = "add_employee"
	opPatch   = "patch_employee"
	opDelete  = "delete_employee"
	opConfig  = "put_config"
	opTrigger = "trigger_run"
)

// OpenAddForm shows the add-employee form with an empty draft.
func (d *Dashboard) OpenAddForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form = AddForm{Open: true}
}

// SetAddDraft updates the id typed into the add-employee form.
func (d *Dashboard) SetAddDraft(externalID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form.Draft = externalID
}

// CloseAddForm hides the add-employee form and drops its draft.
func (d *Dashboard) CloseAddForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form = AddForm{}
}

// SubmitAddForm adds the employee typed into the form.
func (d *Dashboard) SubmitAddForm(ctx context.Context) error {
	return d.AddEmployee(ctx, d.AddForm().Draft)
}

// AddEmployee registers an employee by external id. On success the add
// form closes and the snapshot is refreshed; on failure the form and the
// snapshot stay exactly as they were.
func (d *Dashboard) AddEmployee(ctx context.Context, externalID string) error {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return ErrEmptyEmployeeID
	}
	if _, err := d.api.AddEmployee(ctx, externalID); err != nil {
		return d.failed(ctx, opAdd, err)
	}
	d.CloseAddForm()
	return d.succeeded(ctx, opAdd)
}

// PatchEmployee applies a partial update. The row edit state is not
// touched; use CommitEdit to save a multiplier draft.
func (d *Dashboard) PatchEmployee(ctx context.Context, id string, patch model.EmployeePatch) error {
	if err := d.api.PatchEmployee(ctx, id, patch); err != nil {
		return d.failed(ctx, opPatch, err)
	}
	return d.succeeded(ctx, opPatch)
}

// SetActive sets an employee's active flag.
func (d *Dashboard) SetActive(ctx context.Context, id string, active bool) error {
	return d.PatchEmployee(ctx, id, model.EmployeePatch{Active: &active})
}

// ToggleActive flips the active flag of an employee in the current
// snapshot. A row being edited keeps its draft.
func (d *Dashboard) ToggleActive(ctx context.Context, id string) error {
	e, ok := d.Snapshot().Employee(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEmployee, id)
	}
	return d.SetActive(ctx, id, !e.Active)
}

// DeleteEmployee removes an employee after the operator confirms. It
// reports whether the delete was sent; a declined confirmation is not an
// error.
func (d *Dashboard) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	label := id
	if e, ok := d.Snapshot().Employee(id); ok && e.Name != "" {
		label = fmt.Sprintf("%s (%s)", e.Name, id)
	}
	if !d.confirmer.Confirm(fmt.Sprintf("Remove employee %s from the job?", label)) {
		return false, nil
	}
	if err := d.api.DeleteEmployee(ctx, id); err != nil {
		return true, d.failed(ctx, opDelete, err)
	}
	return true, d.succeeded(ctx, opDelete)
}

// UpdateConfig replaces the job configuration.
func (d *Dashboard) UpdateConfig(ctx context.Context, cfg model.Config) error {
	if err := d.api.PutConfig(ctx, cfg); err != nil {
		return d.failed(ctx, opConfig, err)
	}
	return d.succeeded(ctx, opConfig)
}

// TriggerRun starts an out-of-band job run after the operator confirms. It
// reports whether the trigger was sent.
func (d *Dashboard) TriggerRun(ctx context.Context, opts gateway.TriggerOptions) (bool, error) {
	prompt := "Run the multiplier job now?"
	if cfg := d.Snapshot().Config; cfg != nil && !cfg.DryRun {
		prompt = "Run the multiplier job now? Dry-run is off; hours will be changed."
	}
	if !d.confirmer.Confirm(prompt) {
		return false, nil
	}
	if err := d.api.TriggerRun(ctx, opts); err != nil {
		return true, d.failed(ctx, opTrigger, err)
	}
	return true, d.succeeded(ctx, opTrigger)
}

// BeginEdit puts an employee's multiplier into edit mode, seeded with its
// current value.
func (d *Dashboard) BeginEdit(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.snap.Employees {
		if e.ID == id {
			d.edit = d.edit.Begin(id, e.Multiplier)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownEmployee, id)
}

// ChangeDraft replaces the multiplier draft of the row being edited.
func (d *Dashboard) ChangeDraft(value float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	next, err := d.edit.Change(value)
	if err != nil {
		return err
	}
	d.edit = next
	return nil
}

// CancelEdit leaves edit mode without sending anything.
func (d *Dashboard) CancelEdit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.edit = d.edit.Cancel()
}

// CommitEdit saves the draft multiplier. On success edit mode ends and the
// snapshot is refreshed; on failure the row stays in edit mode with its
// draft.
func (d *Dashboard) CommitEdit(ctx context.Context) error {
	id, draft, ok := d.Edit().Editing()
	if !ok {
		return ErrNotEditing
	}
	if err := d.api.PatchEmployee(ctx, id, model.EmployeePatch{Multiplier: &draft}); err != nil {
		return d.failed(ctx, opPatch, err)
	}

	d.mu.Lock()
	if current, _, editing := d.edit.Editing(); editing && current == id {
		d.edit = d.edit.Cancel()
	}
	d.mu.Unlock()

	return d.succeeded(ctx, opPatch)
}
