package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/secrets"
	"github.com/PolarWolf314/enject/internal/ui"
	"github.com/PolarWolf314/enject/internal/utils"
	"github.com/PolarWolf314/enject/internal/workflows"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// Prompts are variables so tests can answer them without a terminal.
var (
	readPassword    = promptPassword
	readNewPassword = promptNewPassword
	readSecretValue = promptSecretValue

	// runExec starts the child for run. Nil means runner.Run.
	runExec workflows.ExecFunc
)

func resetPrompts() {
	readPassword = promptPassword
	readNewPassword = promptNewPassword
	readSecretValue = promptSecretValue
	runExec = nil
}

func promptPassword(prompt string) (secrets.Secret, error) {
	password, err := utils.ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	return secrets.Secret(password), nil
}

// promptNewPassword asks twice and rejects empty or mismatched entries.
func promptNewPassword(prompt string) (secrets.Secret, error) {
	password, err := utils.ReadPasswordConfirm(prompt, "Confirm "+lowerFirst(prompt), kerrors.ErrPasswordMismatch)
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, kerrors.ErrEmptyPassword
	}
	return secrets.Secret(password), nil
}

// promptSecretValue reads a secret value from piped stdin, or prompts for it
// without echo when stdin is a terminal.
func promptSecretValue(name string) (secrets.Secret, error) {
	if !utils.IsTerminal() {
		data, err := utils.ReadStdin()
		if err != nil {
			return nil, err
		}
		return secrets.Secret(utils.TrimTrailingNewline(data)), nil
	}

	value, err := utils.ReadPassword(fmt.Sprintf("Value for '%s': ", name))
	if err != nil {
		return nil, err
	}
	return secrets.Secret(value), nil
}

// storePasswordFor returns the prompt used to unlock the selected store.
func storePasswordFor(global bool) string {
	if global {
		return "Global store password: "
	}
	return "Store password: "
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
