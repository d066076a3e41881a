package dashboard_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Tiliavir/hdash/internal/dashboard"
	"github.com/Tiliavir/hdash/internal/fakeapi"
	"github.com/Tiliavir/hdash/internal/gateway"
	"github.com/Tiliavir/hdash/internal/model"
)

const testToken = "secret"

// recorder collects operator notifications.
type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

type fixture struct {
	srv     *fakeapi.Server
	client  *gateway.Client
	dash    *dashboard.Dashboard
	notes   *recorder
	confirm bool
	prompts []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{srv: fakeapi.New(testToken), notes: &recorder{}, confirm: true}
	t.Cleanup(func() {
		f.srv.Release()
		f.srv.Close()
	})

	client, err := gateway.New(context.Background(), gateway.Options{BaseURL: f.srv.URL, Token: testToken})
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}
	f.client = client
	f.dash = dashboard.New(client, dashboard.Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Notifier: f.notes,
		Confirmer: dashboard.ConfirmerFunc(func(prompt string) bool {
			f.prompts = append(f.prompts, prompt)
			return f.confirm
		}),
	})
	return f
}

func (f *fixture) seed() {
	f.srv.PutEmployee(model.Employee{ID: "a", Name: "Ada", Multiplier: 1.5, Active: true})
	f.srv.PutEmployee(model.Employee{ID: "b", Name: "Bob", Multiplier: 2, Active: false})
	f.srv.AppendLog(model.LogEntry{EmployeeID: "a", EmployeeName: "Ada", OriginalHours: 4, UpdatedHours: 6, Status: model.StatusSuccess})
	f.srv.SetStats(model.Stats{HoursThisWeek: 2, HoursThisMonth: 10})
}

func (f *fixture) refresh(t *testing.T) model.Snapshot {
	t.Helper()
	if err := f.dash.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return f.dash.Snapshot()
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readHits(srv *fakeapi.Server) int {
	return srv.Hits(fakeapi.Stats) + srv.Hits(fakeapi.Employees) + srv.Hits(fakeapi.Config) + srv.Hits(fakeapi.Logs)
}
