package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hdash/internal/dashboard"
	"github.com/Tiliavir/hdash/internal/model"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the dashboard periodically until interrupted",
	Long: `Fetch the dashboard immediately and then once per interval, printing each
new snapshot. Press Ctrl-C to stop; a refresh still in flight is discarded.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Refresh interval (default from config, 30s)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	interval := a.cfg.Poll.IntervalDuration()
	if watchInterval > 0 {
		interval = watchInterval
	}

	out := cmd.OutOrStdout()
	var printMu sync.Mutex
	a.dash.OnSnapshot(func(s model.Snapshot) {
		printMu.Lock()
		defer printMu.Unlock()
		printWatchFrame(out, s, a.dash.Edit())
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := dashboard.PollDashboard(a.dash, interval)
	if err := poller.Start(ctx); err != nil {
		return err
	}
	a.logger.Debug("watching", "base_url", a.client.BaseURL(), "interval", interval)

	<-ctx.Done()
	poller.Stop()
	fmt.Fprintln(cmd.ErrOrStderr(), "\nStopped.")
	return nil
}

// printWatchFrame prints one refreshed snapshot.
func printWatchFrame(w io.Writer, s model.Snapshot, edit EditView) {
	fmt.Fprintf(w, "── %s ──\n", s.FetchedAt.In(time.Local).Format("15:04:05"))
	printStats(w, s.Stats, s.FetchedAt)
	printConfig(w, s.Config)
	fmt.Fprintln(w)
	printEmployees(w, s.Employees, edit)
	fmt.Fprintln(w)
	printLogs(w, s.Logs)
	fmt.Fprintln(w)
}
