package dashboard_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Tiliavir/hdash/internal/dashboard"
	"github.com/Tiliavir/hdash/internal/fakeapi"
	"github.com/Tiliavir/hdash/internal/gateway"
	"github.com/Tiliavir/hdash/internal/model"
)

func TestRefreshAfterWrite(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	m := 5.0
	if err := f.dash.PatchEmployee(context.Background(), "a", model.EmployeePatch{Multiplier: &m}); err != nil {
		t.Fatalf("PatchEmployee: %v", err)
	}
	e, ok := f.dash.Snapshot().Employee("a")
	if !ok || e.Multiplier != 5.0 {
		t.Errorf("employee a = %+v, want multiplier 5.0", e)
	}
}

func TestWriteTriggersExactlyOneRefresh(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	before := f.srv.Hits(fakeapi.Employees)
	if err := f.dash.SetActive(context.Background(), "b", true); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if got := f.srv.Hits(fakeapi.Employees) - before; got != 1 {
		t.Errorf("refresh cycles after write = %d, want 1", got)
	}
}

func TestAddEmployeeDuplicateScenario(t *testing.T) {
	f := newFixture(t)
	f.seed()
	before := f.refresh(t)

	f.dash.OpenAddForm()
	f.dash.SetAddDraft("emp-42")
	f.srv.SetFault(fakeapi.AddEmployee, fakeapi.Fault{Status: http.StatusBadRequest, Detail: "already exists"})
	reads := readHits(f.srv)

	err := f.dash.SubmitAddForm(context.Background())
	if gateway.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("SubmitAddForm err = %v, want 400", err)
	}
	if form := f.dash.AddForm(); !form.Open || form.Draft != "emp-42" {
		t.Errorf("AddForm = %+v, want open with draft kept", form)
	}
	if diff := cmp.Diff([]string{"already exists"}, f.notes.all()); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
	if got := readHits(f.srv); got != reads {
		t.Errorf("reads after failed add = %d, want none", got-reads)
	}
	if diff := cmp.Diff(before.Employees, f.dash.Snapshot().Employees); diff != "" {
		t.Errorf("employees changed (-before +after):\n%s", diff)
	}
}

func TestAddEmployeeSuccessClosesForm(t *testing.T) {
	f := newFixture(t)
	f.refresh(t)

	f.dash.OpenAddForm()
	f.dash.SetAddDraft("  emp-7 ")
	if err := f.dash.SubmitAddForm(context.Background()); err != nil {
		t.Fatalf("SubmitAddForm: %v", err)
	}
	if f.srv.LastAddedID() != "emp-7" {
		t.Errorf("sent id = %q, want trimmed emp-7", f.srv.LastAddedID())
	}
	if form := f.dash.AddForm(); form.Open || form.Draft != "" {
		t.Errorf("AddForm = %+v, want closed", form)
	}
	if _, ok := f.dash.Snapshot().Employee("emp-7"); !ok {
		t.Error("new employee not in refreshed snapshot")
	}
}

func TestAddEmployeeRequiresID(t *testing.T) {
	f := newFixture(t)
	if err := f.dash.AddEmployee(context.Background(), "   "); !errors.Is(err, dashboard.ErrEmptyEmployeeID) {
		t.Errorf("err = %v, want ErrEmptyEmployeeID", err)
	}
	if f.srv.Hits(fakeapi.AddEmployee) != 0 {
		t.Error("empty id reached the server")
	}
}

func TestFailureWithoutDetailUsesGenericMessage(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)
	f.srv.SetFault(fakeapi.PutConfig, fakeapi.Fault{Status: http.StatusBadGateway})

	if err := f.dash.UpdateConfig(context.Background(), model.Config{RunHour: 3}); err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff([]string{dashboard.GenericFailure}, f.notes.all()); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestUpdateConfigReplacesWholeConfig(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	want := model.Config{RunHour: 22, RunMinute: 15, DefaultMultiplier: 2, DryRun: false}
	if err := f.dash.UpdateConfig(context.Background(), want); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if diff := cmp.Diff(&want, f.dash.Snapshot().Config); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestDeleteDeclinedIsNoop(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)
	f.confirm = false
	reads := readHits(f.srv)

	sent, err := f.dash.DeleteEmployee(context.Background(), "a")
	if err != nil || sent {
		t.Fatalf("DeleteEmployee = %v, %v; want false, nil", sent, err)
	}
	if f.srv.Hits(fakeapi.DeleteEmp) != 0 || readHits(f.srv) != reads {
		t.Error("declined delete touched the network")
	}
	if len(f.prompts) != 1 || f.prompts[0] != "Remove employee Ada (a) from the job?" {
		t.Errorf("prompts = %q", f.prompts)
	}
}

func TestDeleteConfirmed(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	sent, err := f.dash.DeleteEmployee(context.Background(), "b")
	if err != nil || !sent {
		t.Fatalf("DeleteEmployee = %v, %v; want true, nil", sent, err)
	}
	if _, ok := f.dash.Snapshot().Employee("b"); ok {
		t.Error("deleted employee still in snapshot")
	}
}

func TestTriggerRunRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	f.confirm = false
	if sent, err := f.dash.TriggerRun(context.Background(), gateway.TriggerOptions{}); sent || err != nil {
		t.Fatalf("declined TriggerRun = %v, %v", sent, err)
	}
	if f.srv.Hits(fakeapi.Trigger) != 0 {
		t.Error("declined trigger reached the server")
	}

	f.confirm = true
	if sent, err := f.dash.TriggerRun(context.Background(), gateway.TriggerOptions{Date: "2026-02-27"}); !sent || err != nil {
		t.Fatalf("TriggerRun = %v, %v", sent, err)
	}
	if got := f.srv.Triggers(); len(got) != 1 || got[0][1] != "2026-02-27" {
		t.Errorf("Triggers = %v", got)
	}
}

func TestTriggerPromptWarnsWhenNotDryRun(t *testing.T) {
	f := newFixture(t)
	f.srv.SetConfig(model.Config{RunHour: 1, DryRun: false})
	f.refresh(t)
	f.confirm = false

	_, _ = f.dash.TriggerRun(context.Background(), gateway.TriggerOptions{})
	if len(f.prompts) != 1 || f.prompts[0] == "Run the multiplier job now?" {
		t.Errorf("prompt = %q, want dry-run warning", f.prompts)
	}
}

func TestEditCommit(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	if err := f.dash.BeginEdit("a"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if id, draft, ok := f.dash.Edit().Editing(); !ok || id != "a" || draft != 1.5 {
		t.Fatalf("Editing = %q, %v, %v; want a, 1.5", id, draft, ok)
	}
	if err := f.dash.ChangeDraft(3.25); err != nil {
		t.Fatalf("ChangeDraft: %v", err)
	}
	if f.srv.Hits(fakeapi.PatchEmployee) != 0 {
		t.Error("draft change reached the server")
	}
	if err := f.dash.CommitEdit(context.Background()); err != nil {
		t.Fatalf("CommitEdit: %v", err)
	}
	if _, _, ok := f.dash.Edit().Editing(); ok {
		t.Error("still editing after commit")
	}
	if e, _ := f.dash.Snapshot().Employee("a"); e.Multiplier != 3.25 {
		t.Errorf("multiplier = %v, want 3.25", e.Multiplier)
	}
}

func TestEditCommitFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)
	f.srv.SetFault(fakeapi.PatchEmployee, fakeapi.Fault{Status: http.StatusUnprocessableEntity, Detail: "multiplier out of range"})

	_ = f.dash.BeginEdit("a")
	_ = f.dash.ChangeDraft(-1)
	if err := f.dash.CommitEdit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if id, draft, ok := f.dash.Edit().Editing(); !ok || id != "a" || draft != -1 {
		t.Errorf("Editing = %q, %v, %v; want a, -1, true", id, draft, ok)
	}
	if diff := cmp.Diff([]string{"multiplier out of range"}, f.notes.all()); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestEditCancelHasNoNetworkEffect(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	_ = f.dash.BeginEdit("a")
	_ = f.dash.ChangeDraft(9)
	f.dash.CancelEdit()
	if _, _, ok := f.dash.Edit().Editing(); ok {
		t.Error("still editing after cancel")
	}
	if f.srv.Hits(fakeapi.PatchEmployee) != 0 {
		t.Error("cancel reached the server")
	}
	if err := f.dash.CommitEdit(context.Background()); !errors.Is(err, dashboard.ErrNotEditing) {
		t.Errorf("CommitEdit after cancel = %v, want ErrNotEditing", err)
	}
}

func TestBeginEditUnknownEmployee(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	if err := f.dash.BeginEdit("zzz"); !errors.Is(err, dashboard.ErrUnknownEmployee) {
		t.Errorf("err = %v, want ErrUnknownEmployee", err)
	}
	if err := f.dash.ChangeDraft(1); !errors.Is(err, dashboard.ErrNotEditing) {
		t.Errorf("ChangeDraft err = %v, want ErrNotEditing", err)
	}
}

func TestEditIsolation(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	_ = f.dash.BeginEdit("a")
	_ = f.dash.ChangeDraft(3.5)

	if err := f.dash.ToggleActive(context.Background(), "b"); err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if e, _ := f.dash.Snapshot().Employee("b"); !e.Active {
		t.Error("employee b not activated")
	}
	if id, draft, ok := f.dash.Edit().Editing(); !ok || id != "a" || draft != 3.5 {
		t.Errorf("Editing = %q, %v, %v; want a, 3.5, true", id, draft, ok)
	}
}

func TestStaleEditEviction(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	_ = f.dash.BeginEdit("a")
	_ = f.dash.ChangeDraft(4)
	f.srv.RemoveEmployee("a")
	f.refresh(t)

	if _, _, ok := f.dash.Edit().Editing(); ok {
		t.Error("edit of removed employee survived refresh")
	}
}

func TestEditSurvivesRefreshWhenRowRemains(t *testing.T) {
	f := newFixture(t)
	f.seed()
	f.refresh(t)

	_ = f.dash.BeginEdit("a")
	_ = f.dash.ChangeDraft(4)
	f.refresh(t)

	if id, draft, ok := f.dash.Edit().Editing(); !ok || id != "a" || draft != 4 {
		t.Errorf("Editing = %q, %v, %v; want a, 4, true", id, draft, ok)
	}
}

func TestToggleUnknownEmployee(t *testing.T) {
	f := newFixture(t)
	if err := f.dash.ToggleActive(context.Background(), "nobody"); !errors.Is(err, dashboard.ErrUnknownEmployee) {
		t.Errorf("err = %v, want ErrUnknownEmployee", err)
	}
}
