package workflows

import (
	"context"

	"github.com/PolarWolf314/enject/internal/audit"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/secrets"
)

// SetOptions configures the set workflow.
type SetOptions struct {
	StoreOptions

	// Password unlocks the store.
	Password secrets.Secret

	// Name is the secret name referenced as en://<name>.
	Name string

	// Value is the secret value. It must not be empty.
	Value secrets.Secret
}

// SetResult contains the outcome of a set operation.
type SetResult struct {
	// Name is the secret that was stored.
	Name string

	// Overwritten indicates an existing value was replaced.
	Overwritten bool

	// Global indicates the secret was stored in the global store.
	Global bool
}

// Set stores a secret, replacing any existing value under the same name.
//
// Returns ErrInvalidSecretName if the name is not allowed.
// Returns ErrEmptySecretValue if the value is empty.
// Returns ErrStoreNotInitialized if the store has no config.
// Returns ErrDecryptionFailed if the password is wrong.
func Set(ctx context.Context, opts SetOptions) (*SetResult, error) {
	if err := ValidateSecretName(opts.Name); err != nil {
		return nil, err
	}
	if opts.Value.IsEmpty() {
		return nil, kerrors.ErrEmptySecretValue
	}

	settings, err := opts.settings()
	if err != nil {
		return nil, err
	}

	opened, err := unlockStore(settings, opts.Password)
	if err != nil {
		return nil, err
	}
	defer opened.store.Lock()

	existing, existed, err := opened.store.Get(opts.Name)
	if err != nil {
		return nil, err
	}
	existing.Zero()

	if err := opened.store.Set(opts.Name, opts.Value); err != nil {
		return nil, err
	}
	if err := opened.store.Save(opts.Password); err != nil {
		return nil, err
	}

	auditEntry := audit.LogWithUser(audit.OpSet)
	auditEntry.StoreID = opened.config.StoreID
	auditEntry.Global = settings.Global
	auditEntry.Keys = []string{opts.Name}
	audit.Log(settings.AuditPath(), auditEntry)

	return &SetResult{
		Name:        opts.Name,
		Overwritten: existed,
		Global:      settings.Global,
	}, nil
}
