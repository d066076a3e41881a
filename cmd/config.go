package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hdash/internal/config"
	"github.com/Tiliavir/hdash/internal/timecalc"
)

var (
	configRunAt             string
	configDryRun            bool
	configDefaultMultiplier float64
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the job configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the job schedule and the local client settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the job schedule, dry-run flag or default multiplier",
	Long: `Change the job configuration. Flags that are not given keep their current
value; the whole configuration is sent to the service.`,
	Example: `  hdash config set --run-at 18:30
  hdash config set --dry-run=false`,
	Args: cobra.NoArgs,
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	configSetCmd.Flags().StringVar(&configRunAt, "run-at", "", "Daily run time as HH:MM")
	configSetCmd.Flags().BoolVar(&configDryRun, "dry-run", false, "Compute adjustments without writing them")
	configSetCmd.Flags().Float64Var(&configDefaultMultiplier, "default-multiplier", 0, "Multiplier given to new employees")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	snap, err := a.load(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printConfig(out, snap.Config)

	path, _ := config.FilePath()
	fmt.Fprintf(out, "\nClient (%s):\n", path)
	fmt.Fprintf(out, "  base_url:  %s\n", a.client.BaseURL())
	fmt.Fprintf(out, "  timeout:   %s\n", a.cfg.API.TimeoutDuration())
	fmt.Fprintf(out, "  interval:  %s\n", a.cfg.Poll.IntervalDuration())
	fmt.Fprintf(out, "  log_limit: %d\n", a.cfg.Poll.LogLimit)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("run-at") && !flags.Changed("dry-run") && !flags.Changed("default-multiplier") {
		return errors.New("nothing to change: pass --run-at, --dry-run or --default-multiplier")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	snap, err := a.load(ctx)
	if err != nil {
		return err
	}
	if snap.Config == nil {
		return errors.New("current configuration could not be read; refusing to overwrite it")
	}

	next := *snap.Config
	if flags.Changed("run-at") {
		h, m, err := timecalc.ParseClock(configRunAt)
		if err != nil {
			return err
		}
		next.RunHour, next.RunMinute = h, m
	}
	if flags.Changed("dry-run") {
		next.DryRun = configDryRun
	}
	if flags.Changed("default-multiplier") {
		next.DefaultMultiplier = configDefaultMultiplier
	}

	if err := a.dash.UpdateConfig(ctx, next); err != nil {
		return reported(err)
	}
	a.logger.Debug("config updated", "config", mustJSON(next))
	printConfig(cmd.OutOrStdout(), a.dash.Snapshot().Config)
	return nil
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
