package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/hdash/internal/gateway"
)

var (
	logsLimit    int
	logsOffset   int
	logsEmployee string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the job's operation log, newest first",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().IntVar(&logsLimit, "limit", gateway.DefaultLogLimit, "Number of entries to show")
	logsCmd.Flags().IntVar(&logsOffset, "offset", 0, "Number of newest entries to skip")
	logsCmd.Flags().StringVar(&logsEmployee, "employee", "", "Only show entries for this employee id")
}

func runLogs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	logs, err := a.client.Logs(cmd.Context(), gateway.LogQuery{
		Limit:      logsLimit,
		Offset:     logsOffset,
		EmployeeID: logsEmployee,
	})
	if err != nil {
		return err
	}
	printLogs(cmd.OutOrStdout(), logs)
	return nil
}
