package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/ui"
	"github.com/PolarWolf314/enject/internal/workflows"
)

var doctorJSONOutput bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

func resetDoctorCommandState() {
	doctorJSONOutput = false
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the project store and template",
	Long: `Runs a series of health checks on the project and reports issues.
No password is needed and no secret values are read.

The doctor command checks:
  - Store configuration validity
  - Store file presence and permissions
  - Leftover legacy .enveil directory
  - Template syntax
  - Legacy ev:// references
  - Plaintext values that could be imported
  - Global store availability when the template references it

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")

	spinner, cleanup := startSpinner("Running health checks...", verbose)

	result, err := workflows.Doctor(context.Background(), workflows.DoctorOptions{
		EnvFile:   envFileSetting(),
		GlobalDir: globalDirSetting(),
	})
	if err != nil {
		reported := report(&spinner.FinalMSG, err)
		cleanup()
		return reported
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status.String(), check.Message)
	}

	spinner.FinalMSG = ""
	cleanup()

	if doctorJSONOutput {
		if err := outputDoctorJSON(result); err != nil {
			return err
		}
	} else {
		printDoctorResults(result)
	}

	switch {
	case result.Summary.Errors > 0:
		return &ExitError{Code: 2}
	case result.Summary.Warnings > 0:
		return &ExitError{Code: 1}
	}
	return nil
}

// outputDoctorJSON outputs the result as JSON.
func outputDoctorJSON(result *workflows.DoctorResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// printDoctorResults prints the doctor results in a human-readable format.
func printDoctorResults(result *workflows.DoctorResult) {
	for _, check := range result.Checks {
		var line string
		switch check.Status {
		case workflows.CheckPass:
			line = ui.SuccessLine(check.Message)
		case workflows.CheckWarning:
			line = ui.WarningLine(check.Message)
		case workflows.CheckError:
			line = ui.ErrorLine(check.Message)
		}
		fmt.Printf("%s %s\n", line, ui.Muted.Sprint(check.Name))
	}

	fmt.Println()
	fmt.Printf("Summary: %d passed", result.Summary.Passed)
	if result.Summary.Warnings > 0 {
		fmt.Printf(", %s", ui.Warning.Sprint(fmt.Sprintf("%d warning(s)", result.Summary.Warnings)))
	}
	if result.Summary.Errors > 0 {
		fmt.Printf(", %s", ui.Error.Sprint(fmt.Sprintf("%d error(s)", result.Summary.Errors)))
	}
	fmt.Println()

	if len(result.Suggestions) > 0 {
		fmt.Println()
		fmt.Println("Suggestions:")
		for _, suggestion := range result.Suggestions {
			fmt.Printf("  %s\n", ui.HintLine(suggestion))
		}
	}
}
