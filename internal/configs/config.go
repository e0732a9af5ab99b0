package configs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/secrets"
)

const (
	// BackendPassword is the only supported store backend.
	BackendPassword = "password"

	// KdfArgon2id is the only supported key derivation function.
	KdfArgon2id = "argon2id"

	// ConfigVersion is the config format version written by init.
	ConfigVersion = 1
)

// Config is the per-store configuration persisted as config.toml.
// It holds everything needed to re-derive the store key except the password.
type Config struct {
	Backend string `toml:"backend"`
	Version int    `toml:"version"`
	Kdf     string `toml:"kdf"`
	MCost   uint32 `toml:"m_cost"`
	TCost   uint32 `toml:"t_cost"`
	PCost   uint8  `toml:"p_cost"`
	Salt    string `toml:"salt"`

	// StoreID identifies the store in audit entries. Stores created by older
	// releases have none until they are rotated.
	StoreID string `toml:"store_id,omitempty"`
}

// NewConfig builds a config for a freshly created store.
func NewConfig(salt []byte, params secrets.KdfParams) *Config {
	return &Config{
		Backend: BackendPassword,
		Version: ConfigVersion,
		Kdf:     KdfArgon2id,
		MCost:   params.MemoryCost,
		TCost:   params.TimeCost,
		PCost:   params.Parallelism,
		Salt:    hex.EncodeToString(salt),
		StoreID: GenerateStoreID(),
	}
}

// GenerateStoreID generates a new UUID for a store.
func GenerateStoreID() string {
	return uuid.New().String()
}

// KdfParams returns the key derivation parameters recorded in the config.
func (c *Config) KdfParams() secrets.KdfParams {
	return secrets.KdfParams{
		MemoryCost:  c.MCost,
		TimeCost:    c.TCost,
		Parallelism: c.PCost,
	}
}

// SaltBytes decodes the hex salt.
func (c *Config) SaltBytes() ([]byte, error) {
	salt, err := hex.DecodeString(c.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: salt is not valid hex", kerrors.ErrInvalidConfig)
	}
	if len(salt) != secrets.SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", kerrors.ErrInvalidConfig, secrets.SaltSize, len(salt))
	}
	return salt, nil
}

// Validate checks that the config describes a store this build can open.
func (c *Config) Validate() error {
	if c.Backend != BackendPassword {
		return fmt.Errorf("%w: unsupported backend %q", kerrors.ErrInvalidConfig, c.Backend)
	}
	if c.Kdf != KdfArgon2id {
		return fmt.Errorf("%w: unsupported kdf %q", kerrors.ErrInvalidConfig, c.Kdf)
	}
	if _, err := c.SaltBytes(); err != nil {
		return err
	}
	if err := c.KdfParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrInvalidConfig, err)
	}
	return nil
}

// Read loads and validates config.toml from a store directory.
// Returns ErrStoreNotInitialized when the file does not exist.
func Read(dir string) (*Config, error) {
	path := ConfigPath(dir)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, kerrors.ErrStoreNotInitialized
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	config := &Config{}
	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Write saves the config to config.toml in a store directory, creating the directory if needed.
func Write(dir string, config *Config) error {
	if err := SaveTOML(ConfigPath(dir), config); err != nil {
		return fmt.Errorf("failed to save store config: %w", err)
	}
	return nil
}
