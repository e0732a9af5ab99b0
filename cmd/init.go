package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/ui"
	"github.com/PolarWolf314/enject/internal/workflows"
)

func init() {
	addGlobalFlag(initCmd)
	initCmd.Flags().Uint32(settingKdfMemory, 0, "Argon2id memory cost in KiB (default 65536)")
	initCmd.Flags().Uint32(settingKdfTime, 0, "Argon2id iterations (default 3)")
	initCmd.Flags().Uint8(settingKdfParallelism, 0, "Argon2id parallelism (default 4)")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new enject store",
	Long: `Creates an empty encrypted store in .enject/ in the current directory.

You will be asked for a new store password twice. The password is never
stored; lose it and the store cannot be opened.

With --global, the user-wide store is created instead. Its secrets are
referenced from any project as en://global/<name>.

Examples:
  enject init
  enject init --global
  enject init --kdf-memory 131072 --kdf-time 4`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		params, err := kdfParamsSetting()
		if err != nil {
			return fail(fmt.Errorf("%w: %v", kerrors.ErrInvalidKdfParams, err))
		}

		password, err := readNewPassword("New store password: ")
		if err != nil {
			return fail(err)
		}
		defer password.Zero()

		spinner, cleanup := startSpinner("Initializing store...", verbose)
		defer cleanup()

		result, err := workflows.Init(context.Background(), workflows.InitOptions{
			Global:    useGlobal,
			GlobalDir: globalDirSetting(),
			Password:  password,
			KdfParams: params,
		})
		if err != nil {
			return report(&spinner.FinalMSG, err)
		}

		Logger.Debugf("Created store %s in %s", result.StoreID, result.Dir)

		if result.Global {
			spinner.FinalMSG = ui.SuccessLine("Global store initialized in "+ui.Path.Sprint(result.Dir)) + "\n\n" +
				"  Add a shared secret:   " + ui.Code.Sprint("enject set --global some_token") + "\n" +
				"  Reference it in .env:  " + ui.Reference.Sprint("TOKEN=en://global/some_token")
			return nil
		}

		spinner.FinalMSG = ui.SuccessLine("Initialized enject store in "+ui.Path.Sprint(result.Dir)) + "\n\n" +
			"  1. Add a secret:       " + ui.Code.Sprint("enject set some_api_key") + "\n" +
			"  2. Reference in .env:  " + ui.Reference.Sprint("API_KEY=en://some_api_key") + "\n" +
			"  3. Run your app:       " + ui.Code.Sprint("enject run -- npm start") + "\n\n" +
			"The en:// name must match the name used with 'enject set'.\n" +
			"The left side (API_KEY) is what your app sees."
		return nil
	},
}
