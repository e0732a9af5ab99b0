package workflows

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/PolarWolf314/enject/internal/envtemplate"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/secrets"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	StoreOptions

	// Password unlocks the store.
	Password secrets.Secret

	// EnvFile is a template to compare against. Relative paths are resolved
	// against the project root. A missing template is not an error.
	EnvFile string
}

// ListResult contains the outcome of a list operation. Values are never returned.
type ListResult struct {
	// Names are the stored secret names in ascending order.
	Names []string

	// Missing are names the template references from this store that are not stored.
	Missing []string

	// Global indicates the global store was listed.
	Global bool
}

// List returns the names of all stored secrets.
//
// Returns ErrStoreNotInitialized if the store has no config.
// Returns ErrDecryptionFailed if the password is wrong.
// Returns ErrMalformedTemplateLine if EnvFile exists but cannot be parsed.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	settings, err := opts.settings()
	if err != nil {
		return nil, err
	}

	opened, err := unlockStore(settings, opts.Password)
	if err != nil {
		return nil, err
	}
	defer opened.store.Lock()

	names, err := opened.store.List()
	if err != nil {
		return nil, err
	}

	result := &ListResult{Names: names, Global: settings.Global}

	if opts.EnvFile == "" || settings.Global {
		return result, nil
	}

	envPath := opts.EnvFile
	if !filepath.IsAbs(envPath) {
		envPath = filepath.Join(settings.Root, envPath)
	}

	lines, err := envtemplate.ParseFile(envPath)
	if errors.Is(err, kerrors.ErrFileNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	local, _ := envtemplate.References(lines)
	for _, name := range local {
		value, ok, _ := opened.store.Get(name)
		value.Zero()
		if !ok {
			result.Missing = append(result.Missing, name)
		}
	}

	return result, nil
}
