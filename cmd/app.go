package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hdash/internal/config"
	"github.com/Tiliavir/hdash/internal/dashboard"
	"github.com/Tiliavir/hdash/internal/gateway"
	"github.com/Tiliavir/hdash/internal/model"
)

// loadConfig is replaced in tests.
var loadConfig = config.Load

// app bundles what a command needs to talk to the service.
type app struct {
	cfg    config.Config
	client *gateway.Client
	dash   *dashboard.Dashboard
	logger *slog.Logger
}

// newApp loads settings, applies flag overrides and builds the dashboard.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.API.BaseURL = flagBaseURL
	}
	if flagToken != "" {
		cfg.API.Token = flagToken
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	client, err := gateway.New(cmd.Context(), gateway.Options{
		BaseURL:           cfg.API.BaseURL,
		Token:             cfg.API.Token,
		Timeout:           cfg.API.TimeoutDuration(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	})
	if err != nil {
		return nil, err
	}

	dash := dashboard.New(client, dashboard.Options{
		Logger:    logger,
		Notifier:  stderrNotifier(cmd.ErrOrStderr()),
		Confirmer: promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), flagYes),
		LogLimit:  cfg.Poll.LogLimit,
	})
	return &app{cfg: cfg, client: client, dash: dash, logger: logger}, nil
}

// load runs one refresh cycle and returns the snapshot. Slices whose read
// failed are logged as warnings and left empty.
func (a *app) load(ctx context.Context) (model.Snapshot, error) {
	if err := a.dash.Refresh(ctx); err != nil {
		return model.Snapshot{}, err
	}
	return a.dash.Snapshot(), nil
}

// stderrNotifier prints write failures for the operator.
func stderrNotifier(w io.Writer) dashboard.Notifier {
	return dashboard.NotifierFunc(func(msg string) {
		fmt.Fprintf(w, "Error: %s\n", msg)
	})
}

// promptConfirmer asks a [y/N] question on in. assumeYes skips the prompt.
func promptConfirmer(in io.Reader, out io.Writer, assumeYes bool) dashboard.Confirmer {
	reader := bufio.NewReader(in)
	return dashboard.ConfirmerFunc(func(prompt string) bool {
		if assumeYes {
			return true
		}
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

// reportedError marks a write failure the notifier has already shown, so
// Execute only sets the exit status.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// reported wraps a failed write returned by the dashboard.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

// exitCode maps an error to the process exit status: 2 when the service
// could not be reached, 1 for everything else.
func exitCode(err error) int {
	if gateway.IsTransport(err) || errors.Is(err, dashboard.ErrTransport) {
		return 2
	}
	return 1
}
