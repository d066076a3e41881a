package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hdash/internal/model"
	"github.com/Tiliavir/hdash/internal/timecalc"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current snapshot to stdout",
	Long: `Export the dashboard to stdout. csv and md print the operation log; json
prints the whole snapshot.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "csv", "json", "md":
	default:
		return fmt.Errorf("unknown format %q: use csv, json or md", exportFormat)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	snap, err := a.load(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "md":
		printMarkdown(out, snap.Logs)
	default:
		printCSV(out, snap.Logs)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func printCSV(w io.Writer, logs []model.LogEntry) {
	fmt.Fprintln(w, "date,employee_id,employee_name,original_hours,updated_hours,hours_added,status,created_at")
	for _, l := range logs {
		created := ""
		if l.CreatedAt != nil {
			created = l.CreatedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s,%s\n",
			csvEscape(l.Date),
			csvEscape(l.EmployeeID),
			csvEscape(l.EmployeeName),
			formatFloat(l.OriginalHours),
			formatFloat(l.UpdatedHours),
			formatFloat(l.HoursAdded()),
			csvEscape(l.Status),
			created,
		)
	}
}

// csvEscape wraps a field in double-quotes if it contains a comma, double-quote,
// or newline, and escapes any embedded double-quotes by doubling them.
func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func printMarkdown(w io.Writer, logs []model.LogEntry) {
	fmt.Fprintln(w, "| Date | Employee | Original | Updated | Added | Status |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|")
	for _, l := range logs {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
			l.Date,
			mdEscape(l.EmployeeName),
			timecalc.FormatHours(l.OriginalHours),
			timecalc.FormatHours(l.UpdatedHours),
			signedHours(l.HoursAdded()),
			l.Status,
		)
	}
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
