package configs

import (
	"fmt"
	"os"
)

// StoreSettings locates one store on disk.
type StoreSettings struct {
	// Root is the project root, or the global directory for the global store.
	Root string
	// Dir holds config.toml, the store file and the audit log.
	Dir string
	// Legacy is true when Dir is a pre-rename .enveil directory.
	Legacy bool
	// Global is true for the user-wide store.
	Global bool
}

func (s *StoreSettings) ConfigPath() string { return ConfigPath(s.Dir) }
func (s *StoreSettings) StorePath() string  { return StorePath(s.Dir) }
func (s *StoreSettings) AuditPath() string  { return AuditPath(s.Dir) }

// ProjectSettings resolves the project store for root. When root is empty the
// nearest ancestor of the working directory holding a store directory is used,
// falling back to the working directory itself.
func ProjectSettings(root string) (*StoreSettings, error) {
	if root == "" {
		found, err := FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("error getting project root: %w", err)
		}
		root = found
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	dir, legacy, err := ResolveDir(root)
	if err != nil {
		return nil, err
	}

	return &StoreSettings{Root: root, Dir: dir, Legacy: legacy}, nil
}

// GlobalSettings resolves the global store, honouring an explicit directory override.
func GlobalSettings(override string) (*StoreSettings, error) {
	dir, err := GlobalDir(override)
	if err != nil {
		return nil, err
	}
	return &StoreSettings{Root: dir, Dir: dir, Global: true}, nil
}
