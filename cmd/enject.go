package cmd

import (
	logger "github.com/PolarWolf314/enject/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// registeredRoot is the command Register attached everything to.
	registeredRoot *cobra.Command

	commands = []*cobra.Command{
		initCmd,
		setCmd,
		listCmd,
		deleteCmd,
		runCmd,
		importCmd,
		rotateCmd,
		migrateCmd,
		logCmd,
		doctorCmd,
	}
)

// Register attaches the persistent flags and every enject subcommand to root.
// It must be called once per process.
func Register(root *cobra.Command) {
	registeredRoot = root
	root.SilenceErrors = true
	root.SilenceUsage = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	root.PersistentFlags().StringP("env-file", "f", "", "template to resolve (default .env, env ENJECT_ENV_FILE)")
	root.PersistentFlags().String("global-dir", "", "global store directory (env ENJECT_GLOBAL_DIR)")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
		Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
	}

	bindSettings(root)

	for _, c := range commands {
		root.AddCommand(c)
	}
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	resetCommandFlags()
	resetSettings()
	resetPrompts()
}

// resetCommandFlags clears every flag parsed by a previous Execute, so one
// invocation's flags never carry into the next.
func resetCommandFlags() {
	if registeredRoot != nil {
		resetFlags(registeredRoot)
		for _, c := range commands {
			resetFlags(c)
		}
	}

	verbose = false
	debug = false
	resetStoreFlags()
	resetImportCommandState()
	resetMigrateCommandState()
	resetLogCommandState()
	resetDoctorCommandState()
}

// resetFlags restores every flag of c to its default and clears Changed,
// since cobra keeps both across Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
