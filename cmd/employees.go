package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hdash/internal/dashboard"
	"github.com/Tiliavir/hdash/internal/timecalc"
)

var employeesCmd = &cobra.Command{
	Use:     "employees",
	Aliases: []string{"emp"},
	Short:   "List and manage the employees the job adjusts",
	Args:    cobra.NoArgs,
	RunE:    runEmployeesList,
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees with multiplier and active flag",
	Args:  cobra.NoArgs,
	RunE:  runEmployeesList,
}

var employeesAddCmd = &cobra.Command{
	Use:   "add <employee-id>",
	Short: "Add an employee by external id",
	Long: `Add an employee by its id in the time tracking system. The service looks
the person up and rejects ids it already tracks.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmployeesAdd,
}

var employeesRmCmd = &cobra.Command{
	Use:     "rm <employee-id>",
	Aliases: []string{"remove"},
	Short:   "Remove an employee from the job",
	Args:    cobra.ExactArgs(1),
	RunE:    runEmployeesRm,
}

var employeesMultiplierCmd = &cobra.Command{
	Use:   "multiplier <employee-id> <value>",
	Short: "Set an employee's hour multiplier",
	Args:  cobra.ExactArgs(2),
	RunE:  runEmployeesMultiplier,
}

var employeesToggleCmd = &cobra.Command{
	Use:   "toggle <employee-id>",
	Short: "Flip an employee between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesToggle,
}

func init() {
	employeesCmd.AddCommand(employeesListCmd)
	employeesCmd.AddCommand(employeesAddCmd)
	employeesCmd.AddCommand(employeesRmCmd)
	employeesCmd.AddCommand(employeesMultiplierCmd)
	employeesCmd.AddCommand(employeesToggleCmd)
}

func runEmployeesList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	snap, err := a.load(cmd.Context())
	if err != nil {
		return err
	}
	printEmployees(cmd.OutOrStdout(), snap.Employees, a.dash.Edit())
	return nil
}

func runEmployeesAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	a.dash.OpenAddForm()
	a.dash.SetAddDraft(args[0])
	if err := a.dash.SubmitAddForm(ctx); err != nil {
		if errors.Is(err, dashboard.ErrEmptyEmployeeID) {
			return err
		}
		return reported(err)
	}

	id := strings.TrimSpace(args[0])
	if e, ok := a.dash.Snapshot().Employee(id); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) at %s\n", e.Name, e.ID, timecalc.FormatMultiplier(e.Multiplier))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", id)
	return nil
}

func runEmployeesRm(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	// The confirmation prompt names the employee when it is known.
	if _, err := a.load(ctx); err != nil {
		return err
	}

	sent, err := a.dash.DeleteEmployee(ctx, args[0])
	if err != nil {
		return reported(err)
	}
	if !sent {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}

func runEmployeesMultiplier(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid multiplier %q: %w", args[1], err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if _, err := a.load(ctx); err != nil {
		return err
	}

	if err := a.dash.BeginEdit(args[0]); err != nil {
		return err
	}
	if err := a.dash.ChangeDraft(value); err != nil {
		return err
	}
	if err := a.dash.CommitEdit(ctx); err != nil {
		return reported(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", args[0], timecalc.FormatMultiplier(value))
	return nil
}

func runEmployeesToggle(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if _, err := a.load(ctx); err != nil {
		return err
	}

	err = a.dash.ToggleActive(ctx, args[0])
	if err != nil {
		if errors.Is(err, dashboard.ErrUnknownEmployee) {
			return err
		}
		return reported(err)
	}

	state := "unknown"
	if e, ok := a.dash.Snapshot().Employee(args[0]); ok {
		state = activeLabel(e.Active)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], state)
	return nil
}
