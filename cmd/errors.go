package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PolarWolf314/enject/internal/envtemplate"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/ui"
)

// reportedError marks an error whose message has already been shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// ExitError carries a child process exit status out of the run command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("command exited with status %d", e.Code) }

// IsReported reports whether err has already been printed by a command.
func IsReported(err error) bool {
	var reported *reportedError
	var exit *ExitError
	return errors.As(err, &reported) || errors.As(err, &exit)
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	if err != nil {
		return 1
	}
	return 0
}

// report formats err for the user via the spinner's final message and marks it reported.
func report(finalMSG *string, err error) error {
	*finalMSG = formatError(err)
	Logger.Debugf("Command failed: %v", err)
	return &reportedError{err: err}
}

// formatError maps each error kind to one user-facing message. Errors never
// carry secret values, so their text is safe to show.
func formatError(err error) string {
	var notFound *envtemplate.SecretNotFoundError

	switch {
	case errors.As(err, &notFound):
		setCmd := "enject set " + notFound.Name
		if notFound.Global {
			setCmd = "enject set --global " + notFound.Name
		}
		return ui.ErrorLine("Secret "+ui.Secret.Sprint(notFound.DisplayName())+" is referenced but not stored") + "\n" +
			ui.HintLine("Run "+ui.Code.Sprint(setCmd)+" to add it")

	case errors.Is(err, kerrors.ErrStoreNotInitialized):
		return ui.ErrorLine(capitalize(err.Error())) + "\n" +
			ui.HintLine("Run "+ui.Code.Sprint(initCommandFor(err))+" first")

	case errors.Is(err, kerrors.ErrStoreAlreadyInitialized):
		return ui.ErrorLine("enject is already initialized here") + "\n" +
			ui.HintLine("To reinitialize, delete "+ui.Path.Sprint(".enject/")+" first")

	case errors.Is(err, kerrors.ErrDecryptionFailed):
		return ui.ErrorLine("Wrong store password, or the store file is corrupted")

	case errors.Is(err, kerrors.ErrCorruptStore):
		return ui.ErrorLine(capitalize(err.Error())) + "\n" +
			ui.HintLine("Restore the store file from a backup")

	case errors.Is(err, kerrors.ErrMalformedTemplateLine):
		return ui.ErrorLine(capitalize(err.Error())) + "\n" +
			ui.HintLine("Each line must be KEY=VALUE, a comment, or blank")

	case errors.Is(err, kerrors.ErrFileNotFound):
		return ui.ErrorLine(capitalize(err.Error())) + "\n" +
			ui.HintLine("Create a .env with "+ui.Reference.Sprint("en://")+" references, or pass "+ui.Flag.Sprint("--env-file"))

	case errors.Is(err, kerrors.ErrPasswordMismatch),
		errors.Is(err, kerrors.ErrEmptyPassword),
		errors.Is(err, kerrors.ErrEmptySecretValue),
		errors.Is(err, kerrors.ErrInvalidSecretName),
		errors.Is(err, kerrors.ErrInvalidConfig),
		errors.Is(err, kerrors.ErrInvalidKdfParams),
		errors.Is(err, kerrors.ErrInvalidDateFormat),
		errors.Is(err, kerrors.ErrNoCommand):
		return ui.ErrorLine(capitalize(err.Error()))

	default:
		return ui.ErrorLine("Error: " + err.Error())
	}
}

func initCommandFor(err error) string {
	if strings.HasPrefix(err.Error(), "global ") {
		return "enject init --global"
	}
	return "enject init"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// fail prints err for the user when no spinner is running and marks it reported.
func fail(err error) error {
	var msg string
	reported := report(&msg, err)
	fmt.Println(msg)
	return reported
}
