package workflows

import (
	"context"

	"github.com/PolarWolf314/enject/internal/audit"
	"github.com/PolarWolf314/enject/internal/secrets"
)

// DeleteOptions configures the delete workflow.
type DeleteOptions struct {
	StoreOptions

	// Password unlocks the store.
	Password secrets.Secret

	// Name is the secret to remove.
	Name string
}

// DeleteResult contains the outcome of a delete operation.
type DeleteResult struct {
	// Name is the secret that was requested.
	Name string

	// Removed is false when no secret of that name existed.
	Removed bool

	// Global indicates the global store was used.
	Global bool
}

// Delete removes a secret. The store is only rewritten when something was removed.
//
// Returns ErrStoreNotInitialized if the store has no config.
// Returns ErrDecryptionFailed if the password is wrong.
func Delete(ctx context.Context, opts DeleteOptions) (*DeleteResult, error) {
	settings, err := opts.settings()
	if err != nil {
		return nil, err
	}

	opened, err := unlockStore(settings, opts.Password)
	if err != nil {
		return nil, err
	}
	defer opened.store.Lock()

	removed, err := opened.store.Delete(opts.Name)
	if err != nil {
		return nil, err
	}

	if removed {
		if err := opened.store.Save(opts.Password); err != nil {
			return nil, err
		}

		auditEntry := audit.LogWithUser(audit.OpDelete)
		auditEntry.StoreID = opened.config.StoreID
		auditEntry.Global = settings.Global
		auditEntry.Keys = []string{opts.Name}
		audit.Log(settings.AuditPath(), auditEntry)
	}

	return &DeleteResult{
		Name:    opts.Name,
		Removed: removed,
		Global:  settings.Global,
	}, nil
}
