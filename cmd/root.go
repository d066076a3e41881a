package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagBaseURL string
	flagToken   string
	flagVerbose bool
	flagYes     bool
)

var rootCmd = &cobra.Command{
	Use:   "hdash",
	Short: "hdash – operator console for the hour multiplier job",
	Long: `hdash shows and controls the scheduled hour multiplier job: employees and
their multipliers, the job configuration, and the operation log.
Settings are read from ~/.hdash/config.json and HDASH_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var shown reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Dashboard API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Dashboard API bearer token (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to confirmation prompts")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(employeesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(triggerCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthCmd)
}
