package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/ui"
	"github.com/PolarWolf314/enject/internal/workflows"
)

func init() {
	addGlobalFlag(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a secret from the store",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting delete command for %s", name)

		password, err := readPassword(storePasswordFor(useGlobal))
		if err != nil {
			return fail(err)
		}
		defer password.Zero()

		spinner, cleanup := startSpinner("Deleting secret...", verbose)
		defer cleanup()

		result, err := workflows.Delete(context.Background(), workflows.DeleteOptions{
			StoreOptions: storeOptions(),
			Password:     password,
			Name:         name,
		})
		if err != nil {
			return report(&spinner.FinalMSG, err)
		}

		if !result.Removed {
			spinner.FinalMSG = ui.WarningLine("No secret named " + ui.Secret.Sprint(name) + " in the " + storeLabel(result.Global))
			return nil
		}

		spinner.FinalMSG = ui.SuccessLine("Secret " + ui.Secret.Sprint(name) + " deleted from the " + storeLabel(result.Global))
		return nil
	},
}
