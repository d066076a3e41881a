package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show job statistics, schedule and employees",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	snap, err := a.load(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printStats(out, snap.Stats, time.Now())
	printConfig(out, snap.Config)
	fmt.Fprintln(out)
	printEmployees(out, snap.Employees, a.dash.Edit())
	return nil
}
