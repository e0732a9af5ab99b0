package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/PolarWolf314/enject/internal/audit"
	"github.com/PolarWolf314/enject/internal/configs"
	"github.com/PolarWolf314/enject/internal/envtemplate"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/runner"
	"github.com/PolarWolf314/enject/internal/secrets"
)

// DefaultEnvFile is the template read by run when no file is given.
const DefaultEnvFile = ".env"

// PasswordFunc supplies a store password on demand.
type PasswordFunc func() (secrets.Secret, error)

// ExecFunc starts the child process and returns its exit code.
type ExecFunc func(ctx context.Context, cmd runner.Command) (int, error)

// RunOptions configures the run workflow.
type RunOptions struct {
	// ProjectRoot is the directory holding .enject. If empty, it is discovered
	// from the working directory.
	ProjectRoot string

	// GlobalDir overrides the global store location.
	GlobalDir string

	// EnvFile is the template to resolve. Relative paths are resolved against
	// the project root. Defaults to .env.
	EnvFile string

	// Argv is the command to run.
	Argv []string

	// LocalPassword is called only if the template references the project store.
	LocalPassword PasswordFunc

	// GlobalPassword is called only if the template references the global store
	// and the global store exists.
	GlobalPassword PasswordFunc

	// Exec starts the child. Defaults to runner.Run.
	Exec ExecFunc

	// Stdin, Stdout and Stderr are passed to the child. Nil means inherit.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult contains the outcome of a run operation.
type RunResult struct {
	// ExitCode is the child's exit status.
	ExitCode int

	// Injected is the number of variables set from the template.
	Injected int

	// EnvFile is the template that was resolved.
	EnvFile string
}

// Run resolves a template against the project and global stores and runs a
// command with the result layered over the inherited environment.
//
// The template is parsed before any password is requested, and each store is
// only unlocked when the template references it. If the global store does
// not exist, global references fail with ErrSecretNotFound.
//
// Returns ErrNoCommand if Argv is empty.
// Returns ErrStoreNotInitialized if the project has no store.
// Returns ErrFileNotFound if the template does not exist.
// Returns ErrMalformedTemplateLine if the template cannot be parsed.
// Returns ErrDecryptionFailed if a password is wrong.
// Returns ErrSecretNotFound if a reference cannot be resolved; nothing is run.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if len(opts.Argv) == 0 {
		return nil, kerrors.ErrNoCommand
	}

	settings, err := configs.ProjectSettings(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	project, err := loadStore(settings)
	if err != nil {
		return nil, err
	}

	envPath := opts.EnvFile
	if envPath == "" {
		envPath = DefaultEnvFile
	}
	if !filepath.IsAbs(envPath) {
		envPath = filepath.Join(settings.Root, envPath)
	}

	lines, err := envtemplate.ParseFile(envPath)
	if err != nil {
		return nil, err
	}
	localRefs, globalRefs := envtemplate.References(lines)

	local := map[string]string{}
	if len(localRefs) > 0 {
		local, err = snapshotStore(project, opts.LocalPassword)
		if err != nil {
			return nil, err
		}
	}

	global := map[string]string{}
	if len(globalRefs) > 0 {
		global, err = snapshotGlobal(opts.GlobalDir, opts.GlobalPassword)
		if err != nil {
			return nil, err
		}
	}

	env, err := envtemplate.Resolve(lines, local, global)
	if err != nil {
		return nil, err
	}

	exec := opts.Exec
	if exec == nil {
		exec = runner.Run
	}

	code, err := exec(ctx, runner.Command{
		Argv:   opts.Argv,
		Env:    env,
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	})

	auditEntry := audit.LogWithUser(audit.OpRun)
	auditEntry.StoreID = project.config.StoreID
	auditEntry.File = filepath.Base(envPath)
	auditEntry.Count = len(env)
	auditEntry.Program = filepath.Base(opts.Argv[0])
	auditEntry.ExitCode = code
	audit.Log(settings.AuditPath(), auditEntry)

	if err != nil {
		return nil, err
	}

	return &RunResult{
		ExitCode: code,
		Injected: len(env),
		EnvFile:  envPath,
	}, nil
}

func snapshotStore(opened *openedStore, password PasswordFunc) (map[string]string, error) {
	if password == nil {
		return nil, fmt.Errorf("%w: no password provided", kerrors.ErrEmptyPassword)
	}

	pw, err := password()
	if err != nil {
		return nil, err
	}
	defer pw.Zero()

	if err := opened.store.Unlock(pw); err != nil {
		return nil, err
	}
	defer opened.store.Lock()

	return opened.store.Snapshot()
}

func snapshotGlobal(globalDir string, password PasswordFunc) (map[string]string, error) {
	settings, err := configs.GlobalSettings(globalDir)
	if err != nil {
		return nil, err
	}

	opened, err := loadStore(settings)
	if errors.Is(err, kerrors.ErrStoreNotInitialized) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	return snapshotStore(opened, password)
}
