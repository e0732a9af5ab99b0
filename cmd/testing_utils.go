// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments,
// capturing output, and answering password prompts.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/enject/internal/configs"
	logger "github.com/PolarWolf314/enject/internal/logging"
	"github.com/PolarWolf314/enject/internal/runner"
	"github.com/PolarWolf314/enject/internal/secrets"
)

// testRoot is registered once; cobra keeps parent flags cached on subcommands.
var testRoot *cobra.Command

// setupTestEnvironment changes into a fresh project directory, points the
// global store at a temporary directory, and resets all command state.
// It returns the project directory and the global store directory.
func setupTestEnvironment(t *testing.T) (string, string) {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	projectDir := t.TempDir()
	globalDir := filepath.Join(t.TempDir(), "global")

	if err := os.Chdir(projectDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}
	t.Setenv(configs.GlobalDirEnv, globalDir)

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		ResetGlobalState()
	})

	ResetGlobalState()
	return projectDir, globalDir
}

// usePasswords answers password prompts in order. A new password prompt
// consumes one answer (the confirmation is implied).
func usePasswords(t *testing.T, passwords ...string) {
	t.Helper()
	next := func() (secrets.Secret, error) {
		if len(passwords) == 0 {
			t.Fatalf("unexpected password prompt")
			return nil, errors.New("no password")
		}
		p := passwords[0]
		passwords = passwords[1:]
		return secrets.FromString(p), nil
	}
	readPassword = func(string) (secrets.Secret, error) { return next() }
	readNewPassword = func(string) (secrets.Secret, error) { return next() }
}

// useSecretValue answers the secret value prompt.
func useSecretValue(value string) {
	readSecretValue = func(string) (secrets.Secret, error) { return secrets.FromString(value), nil }
}

// execRecorder replaces the child process for run.
type execRecorder struct {
	argv []string
	env  map[string]string
	code int
}

func useExec(code int) *execRecorder {
	rec := &execRecorder{code: code}
	runExec = func(_ context.Context, c runner.Command) (int, error) {
		rec.argv = c.Argv
		rec.env = c.Env
		return rec.code, nil
	}
	return rec
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// createTestCLI returns the test root with args set and the logger initialized.
func createTestCLI(args []string, verboseFlag, debugFlag bool) *cobra.Command {
	if testRoot == nil {
		testRoot = &cobra.Command{Use: "enject"}
		Register(testRoot)
	}
	resetCommandFlags()

	verbose = verboseFlag
	debug = debugFlag
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}

	if verboseFlag {
		args = append([]string{"--verbose"}, args...)
	}
	if debugFlag {
		args = append([]string{"--debug"}, args...)
	}
	testRoot.SetArgs(args)
	return testRoot
}

// runCLI executes enject with args and returns the combined output.
func runCLI(args ...string) (string, error) {
	return captureOutput(func() error {
		return createTestCLI(args, false, false).Execute()
	})
}

// initializeProject initializes an enject store in the current directory.
func initializeProject(t *testing.T, password string) {
	t.Helper()
	usePasswords(t, password)
	if out, err := runCLI("init", "--kdf-memory", "8192", "--kdf-time", "1", "--kdf-parallelism", "1"); err != nil {
		t.Fatalf("Failed to initialize project: %v\n%s", err, out)
	}
}

// verifyProjectStructure verifies that init created the store files.
func verifyProjectStructure(t *testing.T, projectDir string) {
	t.Helper()
	dir := filepath.Join(projectDir, configs.DirName)

	if _, err := os.Stat(configs.ConfigPath(dir)); os.IsNotExist(err) {
		t.Errorf("config.toml was not created in %s", dir)
	}
	if _, err := os.Stat(configs.StorePath(dir)); os.IsNotExist(err) {
		t.Errorf("store file was not created in %s", dir)
	}
}
