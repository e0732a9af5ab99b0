package utils

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

func ttyPath() string {
	if runtime.GOOS == "windows" {
		return "CON"
	}
	return "/dev/tty"
}

// ReadPassword prompts for a password without echoing input.
// Stdin is used when it is a terminal; otherwise the controlling TTY is opened,
// so that a secret value can be piped on stdin while the password is typed.
func ReadPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		return readHidden(fd, prompt)
	}

	tty, err := os.Open(ttyPath())
	if err != nil {
		return nil, fmt.Errorf("cannot read password: stdin is not a terminal and %s is unavailable", ttyPath())
	}
	defer tty.Close()

	ttyFd := int(tty.Fd())
	if !term.IsTerminal(ttyFd) {
		return nil, fmt.Errorf("cannot read password: %s is not a terminal", ttyPath())
	}
	return readHidden(ttyFd, prompt)
}

// ReadPasswordConfirm prompts twice and fails if the two entries differ.
// mismatch is returned unwrapped so callers can match it with errors.Is.
func ReadPasswordConfirm(prompt, confirmPrompt string, mismatch error) ([]byte, error) {
	first, err := ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	second, err := ReadPassword(confirmPrompt)
	if err != nil {
		Wipe(first)
		return nil, err
	}
	defer Wipe(second)

	if !bytes.Equal(first, second) {
		Wipe(first)
		return nil, mismatch
	}
	return first, nil
}

func readHidden(fd int, prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
