package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/utils"
)

const (
	// DirName is the store directory created in a project root.
	DirName = ".enject"

	// LegacyDirName is the store directory used by releases before the rename.
	LegacyDirName = ".enveil"

	// LegacyBackupDirName is where MigrateLegacyDir leaves a copy of the legacy directory.
	LegacyBackupDirName = ".enveil.bak"

	ConfigFileName = "config.toml"
	StoreFileName  = "store"
	AuditFileName  = "audit.jsonl"

	// GlobalDirEnv overrides the location of the global store.
	GlobalDirEnv = "ENJECT_GLOBAL_DIR"
)

// ConfigPath returns the config.toml path inside a store directory.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// StorePath returns the encrypted store path inside a store directory.
func StorePath(dir string) string {
	return filepath.Join(dir, StoreFileName)
}

// AuditPath returns the audit log path inside a store directory.
func AuditPath(dir string) string {
	return filepath.Join(dir, AuditFileName)
}

// ResolveDir picks the store directory for a project root.
// The canonical directory wins when present. Otherwise an existing legacy
// directory is returned with legacy set. When neither exists the canonical
// path is returned so callers can create it.
func ResolveDir(root string) (dir string, legacy bool, err error) {
	canonical := filepath.Join(root, DirName)
	ok, err := isDir(canonical)
	if err != nil {
		return "", false, err
	}
	if ok {
		return canonical, false, nil
	}

	old := filepath.Join(root, LegacyDirName)
	ok, err = isDir(old)
	if err != nil {
		return "", false, err
	}
	if ok {
		return old, true, nil
	}

	return canonical, false, nil
}

// FindProjectRoot walks up from the working directory to the nearest directory
// holding a canonical or legacy store directory.
func FindProjectRoot() (string, error) {
	return utils.FindProjectRoot(DirName, LegacyDirName)
}

// MigrateLegacyDir moves root/.enveil to root/.enject, keeping a copy at
// root/.enveil.bak. It returns the backup path.
func MigrateLegacyDir(root string) (string, error) {
	canonical := filepath.Join(root, DirName)
	old := filepath.Join(root, LegacyDirName)
	backup := filepath.Join(root, LegacyBackupDirName)

	if ok, err := isDir(canonical); err != nil {
		return "", err
	} else if ok {
		return "", fmt.Errorf("%w: %s already exists", kerrors.ErrStoreAlreadyInitialized, DirName)
	}

	if ok, err := isDir(old); err != nil {
		return "", err
	} else if !ok {
		return "", fmt.Errorf("%w: no %s directory in %s", kerrors.ErrStoreNotInitialized, LegacyDirName, root)
	}

	if _, err := os.Stat(backup); err == nil {
		return "", fmt.Errorf("backup directory %s already exists, remove it first", backup)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %s: %w", backup, err)
	}

	if err := utils.CopyDir(old, backup); err != nil {
		_ = os.RemoveAll(backup)
		return "", fmt.Errorf("failed to back up %s: %w", LegacyDirName, err)
	}

	if err := os.Rename(old, canonical); err != nil {
		return "", fmt.Errorf("failed to rename %s to %s: %w", LegacyDirName, DirName, err)
	}

	return backup, nil
}

// GlobalDir returns the global store directory. A non-empty override wins,
// then $ENJECT_GLOBAL_DIR, then <user config dir>/enject/global.
func GlobalDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv(GlobalDirEnv); env != "" {
		return env, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting config directory: %w", err)
	}
	return filepath.Join(configDir, "enject", "global"), nil
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}
