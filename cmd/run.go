package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/secrets"
	"github.com/PolarWolf314/enject/internal/workflows"
)

func init() {
	runCmd.Flags().SetInterspersed(false)
}

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Run a command with secrets injected from .env",
	Long: `Resolves the .env template and runs <command> with the result layered
over the current environment.

Lines of the form KEY=en://name take their value from the project store and
KEY=en://global/name from the global store. Plain KEY=value lines are passed
through unchanged. Each store's password is only asked for when the template
references it.

Secrets exist only in the child's environment. Nothing is written to disk,
and enject exits with the child's exit status.

Examples:
  enject run -- npm start
  enject run --env-file .env.staging -- ./server --port 8080`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		argv := args
		if dash := cmd.ArgsLenAtDash(); dash >= 0 {
			argv = args[dash:]
		}
		Logger.Infof("Starting run command for %s", argv[0])

		result, err := workflows.Run(runContext(cmd), workflows.RunOptions{
			GlobalDir: globalDirSetting(),
			EnvFile:   envFileSetting(),
			Argv:      argv,
			LocalPassword: func() (secrets.Secret, error) {
				return readPassword(storePasswordFor(false))
			},
			GlobalPassword: func() (secrets.Secret, error) {
				return readPassword(storePasswordFor(true))
			},
			Exec:   runExec,
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		})
		if err != nil {
			return fail(err)
		}

		Logger.Debugf("Injected %d variable(s) from %s; child exited with %d", result.Injected, result.EnvFile, result.ExitCode)

		if result.ExitCode != 0 {
			return &ExitError{Code: result.ExitCode}
		}
		return nil
	},
}

// runContext returns the command's context, falling back to Background for
// commands executed without one.
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
