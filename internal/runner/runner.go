package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sort"
	"strings"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

// Command describes a child process. Nil streams default to the parent's.
type Command struct {
	Argv   []string
	Env    map[string]string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Exec runs argv with env layered over the inherited environment and returns
// the child's exit code. The error is non-nil only when the child could not be
// started or waited on; a non-zero exit is reported through the code alone.
func Exec(ctx context.Context, argv []string, env map[string]string) (int, error) {
	return Run(ctx, Command{Argv: argv, Env: env})
}

// Run is Exec with explicit standard streams.
func Run(ctx context.Context, c Command) (int, error) {
	if len(c.Argv) == 0 {
		return 1, kerrors.ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Env = MergeEnv(os.Environ(), c.Env)
	cmd.Stdin = orReader(c.Stdin, os.Stdin)
	cmd.Stdout = orWriter(c.Stdout, os.Stdout)
	cmd.Stderr = orWriter(c.Stderr, os.Stderr)

	// The child shares our terminal and process group, so ^C reaches it
	// directly. We only swallow SIGINT here so that we outlive the child and
	// can propagate its exit code.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	if err := cmd.Start(); err != nil {
		return 127, fmt.Errorf("failed to start %s: %w", c.Argv[0], err)
	}

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// Terminated by a signal.
		return 1, nil
	}
	return 1, fmt.Errorf("failed waiting for %s: %w", c.Argv[0], err)
}

// MergeEnv returns base with every entry of extra set, replacing any existing
// assignment of the same name. Extra entries are appended in sorted order.
func MergeEnv(base []string, extra map[string]string) []string {
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, ok := extra[name]; ok {
			continue
		}
		out = append(out, kv)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		out = append(out, k+"="+extra[k])
	}
	return out
}

func orReader(r, fallback io.Reader) io.Reader {
	if r == nil {
		return fallback
	}
	return r
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
