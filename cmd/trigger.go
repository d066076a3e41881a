package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hdash/internal/gateway"
)

var (
	triggerEmployee string
	triggerDate     string
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Run the multiplier job now",
	Long: `Start an out-of-band job run. Without flags the job processes every active
employee for yesterday, exactly like the scheduled run.`,
	Args: cobra.NoArgs,
	RunE: runTrigger,
}

func init() {
	triggerCmd.Flags().StringVar(&triggerEmployee, "employee", "", "Only process this employee id")
	triggerCmd.Flags().StringVar(&triggerDate, "date", "", "Process this day (YYYY-MM-DD) instead of yesterday")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	if triggerDate != "" {
		if _, err := time.Parse(time.DateOnly, triggerDate); err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", triggerDate)
		}
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	// The prompt warns when dry-run is off, which needs the current config.
	if _, err := a.load(ctx); err != nil {
		return err
	}

	sent, err := a.dash.TriggerRun(ctx, gateway.TriggerOptions{
		EmployeeID: triggerEmployee,
		Date:       triggerDate,
	})
	if err != nil {
		return reported(err)
	}
	if !sent {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Job run started.")
	return nil
}
