package workflows

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PolarWolf314/enject/internal/configs"
	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/secrets"
)

// StoreOptions selects the store a workflow operates on.
type StoreOptions struct {
	// ProjectRoot is the directory holding .enject. If empty, the nearest
	// ancestor of the working directory with a store directory is used.
	ProjectRoot string

	// Global selects the user-wide store instead of the project store.
	Global bool

	// GlobalDir overrides the global store location.
	GlobalDir string
}

func (o StoreOptions) settings() (*configs.StoreSettings, error) {
	if o.Global {
		return configs.GlobalSettings(o.GlobalDir)
	}
	return configs.ProjectSettings(o.ProjectRoot)
}

// openedStore is a store together with where it lives and how it is configured.
type openedStore struct {
	settings *configs.StoreSettings
	config   *configs.Config
	store    *secrets.PasswordStore
}

// loadStore reads the store's config and returns the store still locked.
func loadStore(settings *configs.StoreSettings) (*openedStore, error) {
	config, err := configs.Read(settings.Dir)
	if err != nil {
		if errors.Is(err, kerrors.ErrStoreNotInitialized) && settings.Global {
			return nil, fmt.Errorf("global %w", err)
		}
		return nil, err
	}

	salt, err := config.SaltBytes()
	if err != nil {
		return nil, err
	}

	return &openedStore{
		settings: settings,
		config:   config,
		store:    secrets.NewPasswordStore(settings.StorePath(), config.KdfParams(), salt),
	}, nil
}

// unlockStore loads the store and unlocks it with password.
func unlockStore(settings *configs.StoreSettings, password secrets.Secret) (*openedStore, error) {
	opened, err := loadStore(settings)
	if err != nil {
		return nil, err
	}

	if err := opened.store.Unlock(password); err != nil {
		return nil, err
	}
	return opened, nil
}

var secretNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidateSecretName checks that name can be stored and referenced. Slashes
// are rejected so that a local name can never be confused with global/<name>.
func ValidateSecretName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", kerrors.ErrInvalidSecretName)
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q must not contain '/'", kerrors.ErrInvalidSecretName, name)
	}
	if !secretNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must start with a letter or underscore and contain only letters, digits, '_', '.' or '-'", kerrors.ErrInvalidSecretName, name)
	}
	return nil
}
