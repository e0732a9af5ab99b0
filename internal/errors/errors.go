package errors

import "errors"

// Store errors indicate problems with the encrypted store or its configuration.
var (
	// ErrStoreNotInitialized indicates no store or config exists where one is expected.
	ErrStoreNotInitialized = errors.New("store has not been initialized")

	// ErrStoreAlreadyInitialized indicates a store already exists at the target location.
	ErrStoreAlreadyInitialized = errors.New("store has already been initialized")

	// ErrCorruptStore indicates the store file or its decrypted contents are structurally invalid,
	// or the store was used before being unlocked.
	ErrCorruptStore = errors.New("store is corrupted")

	// ErrInvalidConfig indicates the store configuration is malformed.
	ErrInvalidConfig = errors.New("store configuration is invalid")
)

// Cryptographic errors indicate failures during key derivation, encryption or decryption.
var (
	// ErrDecryptionFailed indicates authentication failed while decrypting the store.
	// A wrong password and a tampered file are reported identically.
	ErrDecryptionFailed = errors.New("wrong store password, or store is corrupted")

	// ErrEncryptFailed indicates the store could not be encrypted.
	ErrEncryptFailed = errors.New("failed to encrypt store")

	// ErrInvalidKdfParams indicates the key derivation cost parameters are unusable.
	ErrInvalidKdfParams = errors.New("invalid key derivation parameters")

	// ErrInvalidSalt indicates the key derivation salt has an unexpected length.
	ErrInvalidSalt = errors.New("invalid key derivation salt")
)

// Template errors indicate issues with .env templates and their references.
var (
	// ErrMalformedTemplateLine indicates a template line violates the KEY=VALUE grammar.
	ErrMalformedTemplateLine = errors.New("malformed template line")

	// ErrSecretNotFound indicates a template reference has no matching secret.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrInvalidSecretName indicates a secret name contains characters that are not allowed.
	ErrInvalidSecretName = errors.New("invalid secret name")
)

// Input errors indicate problems with values supplied by the user.
var (
	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrPasswordMismatch indicates a password and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrEmptyPassword indicates an empty password was supplied.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrEmptySecretValue indicates an empty secret value was supplied.
	ErrEmptySecretValue = errors.New("secret value must not be empty")

	// ErrNoCommand indicates run was invoked without a command to execute.
	ErrNoCommand = errors.New("no command provided")

	// ErrInvalidDateFormat indicates a date filter could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
