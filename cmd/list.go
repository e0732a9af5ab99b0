package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/ui"
	"github.com/PolarWolf314/enject/internal/workflows"
)

func init() {
	addGlobalFlag(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored secret names (never values)",
	Long: `Lists the names of all secrets in the store. Values are never shown.

For the project store, names referenced by the template that are not
stored are reported as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		password, err := readPassword(storePasswordFor(useGlobal))
		if err != nil {
			return fail(err)
		}
		defer password.Zero()

		spinner, cleanup := startSpinner("Unlocking store...", verbose)
		defer cleanup()

		result, err := workflows.List(context.Background(), workflows.ListOptions{
			StoreOptions: storeOptions(),
			Password:     password,
			EnvFile:      envFileSetting(),
		})
		if err != nil {
			return report(&spinner.FinalMSG, err)
		}

		var msg string
		if len(result.Names) == 0 {
			msg = ui.WarningLine("The " + storeLabel(result.Global) + " is empty") + "\n" +
				ui.HintLine("Run "+ui.Code.Sprint("enject set <name>")+" to add a secret")
		} else {
			msg = ui.SuccessLine(fmt.Sprintf("%d secret(s) in the %s:", len(result.Names), storeLabel(result.Global))) + "\n" +
				ui.SecretList(result.Names)
		}

		if len(result.Missing) > 0 {
			msg = ui.EnsureNewline(msg) + ui.WarningLine("Referenced but not stored:") + "\n" + ui.SecretList(result.Missing)
		}

		spinner.FinalMSG = msg
		return nil
	},
}
