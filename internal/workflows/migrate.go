package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/enject/internal/audit"
	"github.com/PolarWolf314/enject/internal/configs"
	"github.com/PolarWolf314/enject/internal/envtemplate"
	"github.com/PolarWolf314/enject/internal/utils"
)

// MigrateOptions configures the migrate workflow.
type MigrateOptions struct {
	// ProjectRoot is the project to migrate. If empty, it is discovered from
	// the working directory.
	ProjectRoot string

	// EnvFile is the template whose legacy references are rewritten.
	// Relative paths are resolved against the project root. Defaults to .env.
	EnvFile string

	// DryRun reports what would change without touching anything.
	DryRun bool
}

// MigrateResult contains the outcome of a migrate operation.
type MigrateResult struct {
	// DirMigrated indicates .enveil was renamed to .enject.
	DirMigrated bool

	// DirBackup is where the legacy directory was copied.
	DirBackup string

	// EnvFile is the template that was inspected.
	EnvFile string

	// ReferencesRewritten is the number of ev:// references upgraded to en://.
	ReferencesRewritten int

	// EnvBackup is where the original template was copied.
	EnvBackup string

	// DryRun indicates whether this was a dry-run (nothing modified).
	DryRun bool
}

// NothingToMigrate reports whether the project was already current.
func (r *MigrateResult) NothingToMigrate() bool {
	return !r.DirMigrated && r.ReferencesRewritten == 0
}

// MigrateLegacy upgrades a project from the pre-rename layout: the .enveil
// directory becomes .enject and ev:// references in the template become
// en://. Backups are kept at .enveil.bak and <template>.bak.
//
// A missing template is not an error.
// Returns ErrMalformedTemplateLine if the template cannot be parsed; nothing is changed.
func MigrateLegacy(ctx context.Context, opts MigrateOptions) (*MigrateResult, error) {
	settings, err := configs.ProjectSettings(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	result := &MigrateResult{DryRun: opts.DryRun}

	envPath := opts.EnvFile
	if envPath == "" {
		envPath = DefaultEnvFile
	}
	if !filepath.IsAbs(envPath) {
		envPath = filepath.Join(settings.Root, envPath)
	}
	result.EnvFile = envPath

	// Validate the template before changing anything on disk.
	var rewritten string
	original, err := os.ReadFile(envPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", envPath, err)
	default:
		rewritten, result.ReferencesRewritten, err = envtemplate.RewriteLegacy(string(original))
		if err != nil {
			return nil, err
		}
	}

	if settings.Legacy {
		result.DirMigrated = true
		if !opts.DryRun {
			backup, err := configs.MigrateLegacyDir(settings.Root)
			if err != nil {
				return nil, err
			}
			result.DirBackup = backup
		}
	}

	if result.ReferencesRewritten > 0 && !opts.DryRun {
		perm := os.FileMode(0600)
		if info, err := os.Stat(envPath); err == nil {
			perm = info.Mode().Perm()
		}

		backup := envPath + ".bak"
		if err := utils.WriteFileAtomic(backup, original, perm); err != nil {
			return nil, fmt.Errorf("backing up %s: %w", envPath, err)
		}
		if err := utils.WriteFileAtomic(envPath, []byte(rewritten), perm); err != nil {
			return nil, fmt.Errorf("rewriting %s: %w", envPath, err)
		}
		result.EnvBackup = backup
	}

	if !opts.DryRun && !result.NothingToMigrate() {
		dir, _, err := configs.ResolveDir(settings.Root)
		if err == nil {
			auditEntry := audit.LogWithUser(audit.OpMigrate)
			if config, err := configs.Read(dir); err == nil {
				auditEntry.StoreID = config.StoreID
			}
			auditEntry.File = filepath.Base(envPath)
			auditEntry.Count = result.ReferencesRewritten
			audit.Log(configs.AuditPath(dir), auditEntry)
		}
	}

	return result, nil
}
