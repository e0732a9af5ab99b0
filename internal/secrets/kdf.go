package secrets

import (
	"crypto/rand"
	"fmt"

	"github.com/awnumar/memguard"
	"github.com/hengadev/errsx"
	"golang.org/x/crypto/argon2"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

const (
	// KeySize is the AES-256 key length derived from a password.
	KeySize = 32

	// SaltSize is the Argon2id salt length stored in config.toml.
	SaltSize = 32

	// NonceSize is the AES-GCM nonce length prefixed to the store file.
	NonceSize = 12
)

// KdfParams are the Argon2id cost parameters.
type KdfParams struct {
	// MemoryCost in KiB.
	MemoryCost uint32
	// TimeCost is the number of passes.
	TimeCost uint32
	// Parallelism is the number of lanes.
	Parallelism uint8
}

// DefaultKdfParams returns the parameters used for new stores.
func DefaultKdfParams() KdfParams {
	return KdfParams{
		MemoryCost:  64 * 1024, // 64 MiB
		TimeCost:    3,
		Parallelism: 4,
	}
}

// Validate reports every out-of-range parameter at once as an errsx.Map keyed
// by field name.
func (p KdfParams) Validate() error {
	errs := errsx.Map{}

	if p.TimeCost < 1 {
		errs.Set("t_cost", fmt.Errorf("time cost must be at least 1, got %d", p.TimeCost))
	}

	if p.Parallelism < 1 {
		errs.Set("p_cost", fmt.Errorf("parallelism must be at least 1, got %d", p.Parallelism))
	}

	// Argon2 needs at least 8 KiB of memory per lane.
	if p.MemoryCost < 8*uint32(p.Parallelism) || p.MemoryCost == 0 {
		errs.Set("m_cost", fmt.Errorf("memory cost must be at least %d KiB, got %d", 8*uint32(max(p.Parallelism, 1)), p.MemoryCost))
	}

	return errs.AsError()
}

// GenerateSalt returns SaltSize random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives a 32-byte AES key from password and salt with Argon2id.
// The same inputs always yield the same key. It fails only on invalid
// parameters, never on the password itself.
//
// The key is returned in a locked buffer; callers must Destroy it when done.
func DeriveKey(password Secret, salt []byte, params KdfParams) (*memguard.LockedBuffer, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", kerrors.ErrInvalidSalt, SaltSize, len(salt))
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrInvalidKdfParams, err)
	}

	key := argon2.IDKey(password, salt, params.TimeCost, params.MemoryCost, params.Parallelism, KeySize)

	// NewBufferFromBytes wipes key once it has been copied into guarded memory.
	return memguard.NewBufferFromBytes(key), nil
}
