package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/ui"
	"github.com/PolarWolf314/enject/internal/workflows"
)

func init() {
	addGlobalFlag(rotateCmd)
}

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Re-encrypt the store with a new password",
	Long: `Unlocks the store with the current password and re-encrypts every secret
under a new one. The old password stops working immediately.

Examples:
  enject rotate
  enject rotate --global`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rotate command")

		oldPassword, err := readPassword("Current " + lowerFirst(storePasswordFor(useGlobal)))
		if err != nil {
			return fail(err)
		}
		defer oldPassword.Zero()

		newPassword, err := readNewPassword("New " + lowerFirst(storePasswordFor(useGlobal)))
		if err != nil {
			return fail(err)
		}
		defer newPassword.Zero()

		spinner, cleanup := startSpinner("Rotating store password...", verbose)
		defer cleanup()

		result, err := workflows.Rotate(context.Background(), workflows.RotateOptions{
			StoreOptions: storeOptions(),
			OldPassword:  oldPassword,
			NewPassword:  newPassword,
		})
		if err != nil {
			return report(&spinner.FinalMSG, err)
		}

		Logger.Debugf("Rotated store %s", result.StoreID)
		spinner.FinalMSG = ui.SuccessLine(fmt.Sprintf("Re-encrypted %d secret(s) in the %s with the new password", result.Count, storeLabel(result.Global)))
		return nil
	},
}
