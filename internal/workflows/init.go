package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/enject/internal/audit"
	"github.com/PolarWolf314/enject/internal/configs"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/secrets"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// ProjectRoot is the directory to initialize. If empty, the working directory is used.
	ProjectRoot string

	// Global initializes the user-wide store instead of a project store.
	Global bool

	// GlobalDir overrides the global store location.
	GlobalDir string

	// Password protects the new store. It must not be empty.
	Password secrets.Secret

	// KdfParams overrides the default Argon2id cost parameters.
	KdfParams *secrets.KdfParams
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// Dir is the store directory that was created.
	Dir string

	// StoreID is the UUID recorded in the new config.
	StoreID string

	// Global indicates the global store was initialized.
	Global bool
}

// Init creates an empty encrypted store and its config.toml.
//
// A fresh random salt is generated and recorded in the config together with
// the KDF parameters. The store file is written encrypted under Password.
//
// Returns ErrStoreAlreadyInitialized if a config already exists, including a legacy one.
// Returns ErrEmptyPassword if the password is empty.
// Returns ErrInvalidKdfParams if custom parameters are out of range.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	settings, err := initSettings(opts)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(settings.ConfigPath()); err == nil {
		return nil, kerrors.ErrStoreAlreadyInitialized
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking for existing config: %w", err)
	}

	if opts.Password.IsEmpty() {
		return nil, kerrors.ErrEmptyPassword
	}

	params := secrets.DefaultKdfParams()
	if opts.KdfParams != nil {
		params = *opts.KdfParams
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrInvalidKdfParams, err)
	}

	salt, err := secrets.GenerateSalt()
	if err != nil {
		return nil, err
	}

	config := configs.NewConfig(salt, params)
	if err := configs.Write(settings.Dir, config); err != nil {
		return nil, err
	}

	if _, err := secrets.CreateEmptyStore(settings.StorePath(), params, salt, opts.Password); err != nil {
		// Leave nothing behind so init can simply be retried.
		_ = os.Remove(settings.ConfigPath())
		return nil, fmt.Errorf("creating encrypted store: %w", err)
	}

	auditEntry := audit.LogWithUser(audit.OpInit)
	auditEntry.StoreID = config.StoreID
	auditEntry.Global = settings.Global
	audit.Log(settings.AuditPath(), auditEntry)

	return &InitResult{
		Dir:     settings.Dir,
		StoreID: config.StoreID,
		Global:  settings.Global,
	}, nil
}

func initSettings(opts InitOptions) (*configs.StoreSettings, error) {
	if opts.Global {
		return configs.GlobalSettings(opts.GlobalDir)
	}

	root := opts.ProjectRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	return configs.ProjectSettings(root)
}
