package workflows

import (
	"context"

	"github.com/PolarWolf314/enject/internal/audit"
	"github.com/PolarWolf314/enject/internal/configs"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/secrets"
)

// RotateOptions configures the rotate workflow.
type RotateOptions struct {
	StoreOptions

	// OldPassword unlocks the store.
	OldPassword secrets.Secret

	// NewPassword re-encrypts the store. It must not be empty.
	NewPassword secrets.Secret
}

// RotateResult contains the outcome of a rotate operation.
type RotateResult struct {
	// Count is the number of secrets re-encrypted.
	Count int

	// StoreID is the store's UUID, assigned now if the store had none.
	StoreID string

	// Global indicates the global store was rotated.
	Global bool
}

// Rotate re-encrypts the store under a new password. The salt and KDF
// parameters are kept; a new key follows from the new password alone.
//
// Returns ErrEmptyPassword if the new password is empty.
// Returns ErrStoreNotInitialized if the store has no config.
// Returns ErrDecryptionFailed if the old password is wrong.
func Rotate(ctx context.Context, opts RotateOptions) (*RotateResult, error) {
	if opts.NewPassword.IsEmpty() {
		return nil, kerrors.ErrEmptyPassword
	}

	settings, err := opts.settings()
	if err != nil {
		return nil, err
	}

	opened, err := unlockStore(settings, opts.OldPassword)
	if err != nil {
		return nil, err
	}
	defer opened.store.Lock()

	count, err := opened.store.Len()
	if err != nil {
		return nil, err
	}

	if err := opened.store.Save(opts.NewPassword); err != nil {
		return nil, err
	}

	// Stores created before store IDs existed get one on their first rotation.
	if opened.config.StoreID == "" {
		opened.config.StoreID = configs.GenerateStoreID()
		if err := configs.Write(settings.Dir, opened.config); err != nil {
			return nil, err
		}
	}

	auditEntry := audit.LogWithUser(audit.OpRotate)
	auditEntry.StoreID = opened.config.StoreID
	auditEntry.Global = settings.Global
	auditEntry.Count = count
	audit.Log(settings.AuditPath(), auditEntry)

	return &RotateResult{
		Count:   count,
		StoreID: opened.config.StoreID,
		Global:  settings.Global,
	}, nil
}
