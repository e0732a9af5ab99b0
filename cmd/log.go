package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/audit"
	"github.com/PolarWolf314/enject/internal/workflows"
)

var (
	logLimit     int
	logReverse   bool
	logUser      string
	logOperation string
	logSince     string
	logUntil     string
	logOneline   bool
	logJSON      bool
)

func init() {
	addGlobalFlag(logCmd)
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logUser, "user", "", "filter by username")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logUser = ""
	logOperation = ""
	logSince = ""
	logUntil = ""
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of store operations.

Shows who changed which secret and when. Secret values are never logged.
Use filters to narrow down the results.

Examples:
  enject log                          # View full log
  enject log -n 10                    # Last 10 entries
  enject log --reverse                # Most recent first
  enject log --user alice             # Filter by user
  enject log --operation set,delete   # Filter by operation
  enject log --since 2024-01-01       # Filter by date
  enject log --global --json          # Global store, JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	result, err := workflows.Log(context.Background(), workflows.LogOptions{
		StoreOptions: storeOptions(),
		Limit:        logLimit,
		Reverse:      logReverse,
		User:         logUser,
		Operations:   logOperation,
		Since:        logSince,
		Until:        logUntil,
	})
	if err != nil {
		return fail(err)
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	if logJSON {
		return outputLogJSON(result.Entries)
	}

	if logOneline {
		outputLogOneline(result.Entries)
		return nil
	}

	outputLogDefault(result.Entries)
	return nil
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogOneline(entries []audit.Entry) {
	for _, e := range entries {
		fmt.Printf("%s %s %s %s\n", formatLogTime(e.Timestamp, "2006-01-02"), e.User, e.Operation, formatLogDetails(e))
	}
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		fmt.Printf("%-19s  %-16s  %-8s  %s\n", formatLogTime(e.Timestamp, "2006-01-02 15:04:05"), e.User, e.Operation, formatLogDetails(e))
	}
}

// formatLogTime renders ts in layout, or returns it unchanged if it cannot be parsed.
func formatLogTime(ts, layout string) string {
	t, err := audit.ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Format(layout)
}

// formatLogDetails summarizes the operation-specific fields of an entry.
func formatLogDetails(e audit.Entry) string {
	var parts []string

	if e.Global {
		parts = append(parts, "[global]")
	}

	switch e.Operation {
	case audit.OpSet, audit.OpDelete:
		parts = append(parts, strings.Join(e.Keys, ", "))
	case audit.OpImport:
		parts = append(parts, fmt.Sprintf("%d secret(s) from %s", e.Count, e.File))
	case audit.OpRun:
		parts = append(parts, fmt.Sprintf("%s with %d var(s) from %s, exit %d", e.Program, e.Count, e.File, e.ExitCode))
	case audit.OpRotate:
		parts = append(parts, fmt.Sprintf("%d secret(s)", e.Count))
	case audit.OpMigrate:
		parts = append(parts, fmt.Sprintf("%d reference(s) in %s", e.Count, e.File))
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}
