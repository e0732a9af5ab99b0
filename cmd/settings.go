package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PolarWolf314/enject/internal/secrets"
	"github.com/PolarWolf314/enject/internal/workflows"
)

// Setting keys. Each can also be given as ENJECT_<KEY> with dashes as underscores.
const (
	settingEnvFile        = "env-file"
	settingGlobalDir      = "global-dir"
	settingKdfMemory      = "kdf-memory"
	settingKdfTime        = "kdf-time"
	settingKdfParallelism = "kdf-parallelism"
)

var settings = newSettings()

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ENJECT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(settingEnvFile, workflows.DefaultEnvFile)
	return v
}

// bindSettings lets flags override environment variables.
func bindSettings(root *cobra.Command) {
	_ = settings.BindPFlag(settingEnvFile, root.PersistentFlags().Lookup(settingEnvFile))
	_ = settings.BindPFlag(settingGlobalDir, root.PersistentFlags().Lookup(settingGlobalDir))
	_ = settings.BindPFlag(settingKdfMemory, initCmd.Flags().Lookup(settingKdfMemory))
	_ = settings.BindPFlag(settingKdfTime, initCmd.Flags().Lookup(settingKdfTime))
	_ = settings.BindPFlag(settingKdfParallelism, initCmd.Flags().Lookup(settingKdfParallelism))
}

func resetSettings() {
	settings = newSettings()
	if registeredRoot != nil {
		bindSettings(registeredRoot)
	}
}

func envFileSetting() string {
	return settings.GetString(settingEnvFile)
}

func globalDirSetting() string {
	return settings.GetString(settingGlobalDir)
}

// kdfParamsSetting returns the default Argon2id parameters with any
// configured overrides applied, or nil when nothing was overridden.
func kdfParamsSetting() (*secrets.KdfParams, error) {
	if !settings.IsSet(settingKdfMemory) && !settings.IsSet(settingKdfTime) && !settings.IsSet(settingKdfParallelism) {
		return nil, nil
	}

	params := secrets.DefaultKdfParams()
	if settings.IsSet(settingKdfMemory) {
		params.MemoryCost = settings.GetUint32(settingKdfMemory)
	}
	if settings.IsSet(settingKdfTime) {
		params.TimeCost = settings.GetUint32(settingKdfTime)
	}
	if settings.IsSet(settingKdfParallelism) {
		p := settings.GetUint(settingKdfParallelism)
		if p > 255 {
			return nil, fmt.Errorf("%s must be at most 255, got %d", settingKdfParallelism, p)
		}
		params.Parallelism = uint8(p)
	}
	return &params, nil
}
