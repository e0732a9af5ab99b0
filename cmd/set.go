package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/ui"
	"github.com/PolarWolf314/enject/internal/workflows"
)

func init() {
	addGlobalFlag(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Add or update a secret",
	Long: `Stores a secret under <name>, replacing any existing value.

The value is read without echo, or from stdin when it is piped. It is never
printed and never written anywhere except the encrypted store.

Reference the secret from .env as en://<name>, or en://global/<name> when
stored with --global.

Examples:
  enject set db_password
  printf '%s' "$TOKEN" | enject set api_token
  enject set --global github_token`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting set command for %s", name)

		// Reject bad names before asking for anything.
		if err := workflows.ValidateSecretName(name); err != nil {
			return fail(err)
		}

		password, err := readPassword(storePasswordFor(useGlobal))
		if err != nil {
			return fail(err)
		}
		defer password.Zero()

		value, err := readSecretValue(name)
		if err != nil {
			return fail(err)
		}
		defer value.Zero()

		spinner, cleanup := startSpinner("Saving secret...", verbose)
		defer cleanup()

		result, err := workflows.Set(context.Background(), workflows.SetOptions{
			StoreOptions: storeOptions(),
			Password:     password,
			Name:         name,
			Value:        value,
		})
		if err != nil {
			return report(&spinner.FinalMSG, err)
		}

		verb := "saved to"
		if result.Overwritten {
			verb = "updated in"
		}
		spinner.FinalMSG = ui.SuccessLine("Secret " + ui.Secret.Sprint(result.Name) + " " + verb + " the " + storeLabel(result.Global))
		return nil
	},
}
