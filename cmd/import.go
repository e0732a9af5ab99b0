package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/envtemplate"
	"github.com/PolarWolf314/enject/internal/ui"
	"github.com/PolarWolf314/enject/internal/workflows"
)

var importDryRunFlag bool

func init() {
	addGlobalFlag(importCmd)
	importCmd.Flags().BoolVar(&importDryRunFlag, "dry-run", false, "show what would be imported without making changes")
}

// resetImportCommandState resets the import command's global state for testing.
func resetImportCommandState() {
	importDryRunFlag = false
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Move plaintext values from a .env file into the store",
	Long: `Imports every plain KEY=value line of a .env file into the store under
the name KEY, then rewrites the file in place so each such line reads
KEY=en://KEY. With --global the values go to the global store and the
lines read KEY=en://global/KEY. Comments, blank lines and existing
references are kept.

The store is saved before the file is rewritten. No plaintext copy of the
original file is kept, so commit or back it up first if you need one.

Examples:
  enject import
  enject import .env.local
  enject import --dry-run
  enject import --global .env.shared`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := envFileSetting()
		if len(args) == 1 {
			file = args[0]
		}
		Logger.Infof("Starting import command for %s", file)

		password, err := readPassword(storePasswordFor(useGlobal))
		if err != nil {
			return fail(err)
		}
		defer password.Zero()

		spinner, cleanup := startSpinner("Importing secrets...", verbose)
		defer cleanup()

		result, err := workflows.Import(context.Background(), workflows.ImportOptions{
			StoreOptions: storeOptions(),
			Password:     password,
			File:         file,
			DryRun:       importDryRunFlag,
		})
		if err != nil {
			return report(&spinner.FinalMSG, err)
		}

		if len(result.Imported) == 0 {
			spinner.FinalMSG = ui.SuccessLine("No plaintext values in " + ui.Path.Sprint(result.File))
			return nil
		}

		var msg string
		if result.DryRun {
			msg = ui.Info.Sprint("Dry run") + " - no changes made\n\n" +
				fmt.Sprintf("Would import %d secret(s) from %s:\n", len(result.Imported), ui.Path.Sprint(result.File))
		} else {
			msg = ui.SuccessLine(fmt.Sprintf("Imported %d secret(s) from %s:", len(result.Imported), ui.Path.Sprint(result.File))) + "\n"
		}
		msg += ui.SecretList(result.Imported)

		if len(result.Overwritten) > 0 {
			msg += ui.WarningLine("Replaced existing values for:") + "\n" + ui.SecretList(result.Overwritten)
		}
		if !result.DryRun {
			prefix := envtemplate.LocalPrefix
			if result.Global {
				prefix = envtemplate.GlobalPrefix
			}
			msg += ui.HintLine(ui.Path.Sprint(result.File) + " now references the " + storeLabel(result.Global) + " via " + ui.Reference.Sprint(prefix))
		}

		spinner.FinalMSG = msg
		return nil
	},
}
