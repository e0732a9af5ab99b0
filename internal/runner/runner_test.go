package runner

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
}

func runShell(t *testing.T, script string, env map[string]string) (int, string) {
	t.Helper()
	var stdout bytes.Buffer
	code, err := Run(context.Background(), Command{
		Argv:   []string{"sh", "-c", script},
		Env:    env,
		Stdout: &stdout,
		Stderr: &bytes.Buffer{},
	})
	require.NoError(t, err)
	return code, strings.TrimSpace(stdout.String())
}

func TestRun_InjectsEnv(t *testing.T) {
	requireShell(t)

	code, out := runShell(t, `echo "$ENJECT_TEST_VAR"`, map[string]string{"ENJECT_TEST_VAR": "hello-from-enject"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello-from-enject", out)
}

func TestRun_InheritsParentEnv(t *testing.T) {
	requireShell(t)
	t.Setenv("ENJECT_PARENT_VAR", "inherited")

	code, out := runShell(t, `echo "$ENJECT_PARENT_VAR"`, nil)
	assert.Equal(t, 0, code)
	assert.Equal(t, "inherited", out)
}

func TestRun_OverridesParentEnv(t *testing.T) {
	requireShell(t)
	t.Setenv("ENJECT_OVERRIDE_VAR", "original")

	_, out := runShell(t, `echo "$ENJECT_OVERRIDE_VAR"`, map[string]string{"ENJECT_OVERRIDE_VAR": "overridden"})
	assert.Equal(t, "overridden", out)
}

func TestRun_UnsetStaysUnset(t *testing.T) {
	requireShell(t)

	_, out := runShell(t, `echo "${ENJECT_NEVER_SET_VAR:-MISSING}"`, nil)
	assert.Equal(t, "MISSING", out)
}

func TestRun_PropagatesExitCode(t *testing.T) {
	requireShell(t)

	for _, want := range []int{0, 1, 3, 42} {
		code, _ := runShell(t, "exit "+strconv.Itoa(want), nil)
		assert.Equal(t, want, code)
	}
}

func TestRun_ChildKilledByInterrupt(t *testing.T) {
	requireShell(t)

	// The child handles ^C itself; we only report that it did not exit cleanly.
	code, _ := runShell(t, `kill -INT $$; sleep 5`, nil)
	assert.Equal(t, 1, code)
}

func TestRun_PassesStdin(t *testing.T) {
	requireShell(t)

	var stdout bytes.Buffer
	code, err := Run(context.Background(), Command{
		Argv:   []string{"sh", "-c", "cat"},
		Stdin:  strings.NewReader("piped"),
		Stdout: &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "piped", stdout.String())
}

func TestRun_NoCommand(t *testing.T) {
	_, err := Exec(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, kerrors.ErrNoCommand))
}

func TestRun_CommandNotFound(t *testing.T) {
	code, err := Exec(context.Background(), []string{"enject-definitely-not-a-real-command"}, nil)
	require.Error(t, err)
	assert.Equal(t, 127, code)
}

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/bin", "HOME=/home/u", "KEEP=1", "WEIRD=a=b"}
	got := MergeEnv(base, map[string]string{"HOME": "/tmp", "B": "2", "A": "1"})

	assert.Equal(t, []string{"PATH=/bin", "KEEP=1", "WEIRD=a=b", "A=1", "B=2", "HOME=/tmp"}, got)
	assert.Equal(t, base, MergeEnv(base, nil))
}
