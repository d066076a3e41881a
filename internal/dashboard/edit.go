package dashboard

import (
	"errors"

	"github.com/Tiliavir/hdash/internal/model"
)

// ErrNotEditing is returned when a draft is changed or committed while no
// row is being edited.
var ErrNotEditing = errors.New("no employee is being edited")

// EditState tracks the single row whose multiplier is being edited. The
// zero value is NotEditing. Transitions return a new value.
type EditState struct {
	TargetEmployeeID *string
	DraftMultiplier  *float64
}

// Editing returns the target and draft, and whether a row is in edit mode.
func (s EditState) Editing() (id string, draft float64, ok bool) {
	if s.TargetEmployeeID == nil {
		return "", 0, false
	}
	if s.DraftMultiplier != nil {
		draft = *s.DraftMultiplier
	}
	return *s.TargetEmployeeID, draft, true
}

// Begin puts id into edit mode seeded with its current multiplier. Any
// other row leaves edit mode.
func (s EditState) Begin(id string, current float64) EditState {
	return EditState{TargetEmployeeID: &id, DraftMultiplier: &current}
}

// Change replaces the draft. Nothing is sent to the service.
func (s EditState) Change(value float64) (EditState, error) {
	id, _, ok := s.Editing()
	if !ok {
		return s, ErrNotEditing
	}
	return EditState{TargetEmployeeID: &id, DraftMultiplier: &value}, nil
}

// Cancel leaves edit mode without any network effect.
func (s EditState) Cancel() EditState {
	return EditState{}
}

// Evict leaves edit mode if the target is missing from employees.
func (s EditState) Evict(employees []model.Employee) EditState {
	id, _, ok := s.Editing()
	if !ok {
		return s
	}
	for _, e := range employees {
		if e.ID == id {
			return s
		}
	}
	return EditState{}
}

// AddForm is the transient state of the add-employee form.
type AddForm struct {
	Open  bool
	Draft string
}
