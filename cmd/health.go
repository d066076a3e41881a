package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hdash/internal/timecalc"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the dashboard service is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	h, err := a.client.Health(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (server time %s)\n",
		a.client.BaseURL(), h.Status, timecalc.FormatTime(timeOf(h.Timestamp), time.Local))
	return nil
}
