package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/cmd"
	"github.com/PolarWolf314/enject/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "enject",
	Short: "Enject - keep secrets out of .env files.",
	Long: `Enject keeps secret values out of .env files. The .env becomes a template
of en:// references, and the values live in a password-encrypted store that
is only decrypted to inject them into a command's environment.

Usage:
  enject <command> [flags]

Getting started:
  enject init                         Create a store in this project
  enject set db_password              Add a secret
  echo DB_PASSWORD=en://db_password >> .env
  enject run -- npm start             Run with secrets injected

Run 'enject help <command>' for more details on a specific command.
`,
}

func init() {
	cmd.Register(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, ui.ErrorLine(err.Error()))
		}
		os.Exit(cmd.ExitCode(err))
	}
}
