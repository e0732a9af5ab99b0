package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/configs"
	"github.com/PolarWolf314/enject/internal/ui"
	"github.com/PolarWolf314/enject/internal/workflows"
)

var migrateDryRunFlag bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRunFlag, "dry-run", false, "show what would change without making changes")
}

func resetMigrateCommandState() {
	migrateDryRunFlag = false
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade a project from the legacy .enveil layout",
	Long: `Moves a legacy .enveil/ store directory to .enject/ and rewrites legacy
ev:// references in the template as en://.

Backups are kept: the old directory is copied to .enveil.bak/ and the
original template to <template>.bak. The store itself is not re-encrypted,
so no password is needed.

Legacy ev:// references keep working without migrating.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting migrate command")

		spinner, cleanup := startSpinner("Migrating project...", verbose)
		defer cleanup()

		result, err := workflows.MigrateLegacy(context.Background(), workflows.MigrateOptions{
			EnvFile: envFileSetting(),
			DryRun:  migrateDryRunFlag,
		})
		if err != nil {
			return report(&spinner.FinalMSG, err)
		}

		if result.NothingToMigrate() {
			spinner.FinalMSG = ui.SuccessLine("Nothing to migrate; project already uses " + ui.Path.Sprint(configs.DirName) + " and en://")
			return nil
		}

		var msg string
		if result.DryRun {
			msg = ui.Info.Sprint("Dry run") + " - no changes made\n\n"
		}

		if result.DirMigrated {
			if result.DryRun {
				msg += ui.HintLine("Would move " + ui.Path.Sprint(configs.LegacyDirName) + " to " + ui.Path.Sprint(configs.DirName)) + "\n"
			} else {
				msg += ui.SuccessLine("Moved "+ui.Path.Sprint(configs.LegacyDirName)+" to "+ui.Path.Sprint(configs.DirName)) +
					" " + ui.Muted.Sprint("backup: "+result.DirBackup) + "\n"
			}
		}

		if result.ReferencesRewritten > 0 {
			if result.DryRun {
				msg += ui.HintLine(fmt.Sprintf("Would rewrite %d ev:// reference(s) in %s", result.ReferencesRewritten, ui.Path.Sprint(result.EnvFile))) + "\n"
			} else {
				msg += ui.SuccessLine(fmt.Sprintf("Rewrote %d ev:// reference(s) in %s", result.ReferencesRewritten, ui.Path.Sprint(result.EnvFile))) +
					" " + ui.Muted.Sprint("backup: "+result.EnvBackup) + "\n"
			}
		}

		spinner.FinalMSG = msg
		return nil
	},
}
