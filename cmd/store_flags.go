package cmd

import (
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/workflows"
)

// useGlobal is shared by every command that can target the global store.
var useGlobal bool

func addGlobalFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&useGlobal, "global", "g", false, "use the global store instead of the project store")
}

func resetStoreFlags() {
	useGlobal = false
}

func storeOptions() workflows.StoreOptions {
	return workflows.StoreOptions{
		Global:    useGlobal,
		GlobalDir: globalDirSetting(),
	}
}

// storeLabel names the selected store in messages.
func storeLabel(global bool) string {
	if global {
		return "global store"
	}
	return "store"
}
