package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/utils"
)

// PasswordStore is a password-protected key/value store persisted as a single
// AES-256-GCM encrypted file:
//
//	nonce (12 bytes) || ciphertext of a JSON object of string to string
//
// The store starts locked. Unlock decrypts the file into memory, the mutators
// change only the in-memory map, and Save re-encrypts everything with a fresh
// nonce and atomically replaces the file.
//
// A PasswordStore is not safe for concurrent use.
type PasswordStore struct {
	path   string
	params KdfParams
	salt   []byte

	// nil while locked.
	secrets map[string]Secret
}

// NewPasswordStore returns a locked store for the file at path.
func NewPasswordStore(path string, params KdfParams, salt []byte) *PasswordStore {
	s := make([]byte, len(salt))
	copy(s, salt)
	return &PasswordStore{path: path, params: params, salt: s}
}

// CreateEmptyStore writes a new store containing no secrets and returns it unlocked.
func CreateEmptyStore(path string, params KdfParams, salt []byte, password Secret) (*PasswordStore, error) {
	store := NewPasswordStore(path, params, salt)
	store.secrets = make(map[string]Secret)

	if err := store.Save(password); err != nil {
		return nil, err
	}
	return store, nil
}

// Path returns the store file path.
func (s *PasswordStore) Path() string { return s.path }

// IsUnlocked reports whether the secret map is loaded.
func (s *PasswordStore) IsUnlocked() bool { return s.secrets != nil }

// Unlock decrypts the store file with password. A missing file unlocks to an
// empty store. A wrong password and a tampered file both yield
// ErrDecryptionFailed; structural problems yield ErrCorruptStore.
func (s *PasswordStore) Unlock(password Secret) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.replace(make(map[string]Secret))
			return nil
		}
		return fmt.Errorf("failed to read store file %s: %w", s.path, err)
	}

	if len(data) < NonceSize {
		return fmt.Errorf("%w: store file too short to contain a nonce", kerrors.ErrCorruptStore)
	}
	nonce, ciphertext := data[:NonceSize], data[NonceSize:]

	gcm, destroy, err := s.aead(password)
	if err != nil {
		return err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	destroy()
	if err != nil {
		return kerrors.ErrDecryptionFailed
	}
	defer wipe(plaintext)

	secrets, err := decodeSecrets(plaintext)
	if err != nil {
		return err
	}

	s.replace(secrets)
	return nil
}

// Get returns a copy of the secret stored under key.
func (s *PasswordStore) Get(key string) (Secret, bool, error) {
	if err := s.checkUnlocked(); err != nil {
		return nil, false, err
	}

	value, ok := s.secrets[key]
	if !ok {
		return nil, false, nil
	}
	return FromBytes(value), true, nil
}

// Set stores a copy of value under key, overwriting and wiping any previous value.
func (s *PasswordStore) Set(key string, value Secret) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}

	if old, ok := s.secrets[key]; ok {
		old.Zero()
	}
	s.secrets[key] = FromBytes(value)
	return nil
}

// Delete removes key and reports whether it was present.
func (s *PasswordStore) Delete(key string) (bool, error) {
	if err := s.checkUnlocked(); err != nil {
		return false, err
	}

	old, ok := s.secrets[key]
	if !ok {
		return false, nil
	}
	old.Zero()
	delete(s.secrets, key)
	return true, nil
}

// List returns all keys in ascending byte order. Values are never listed.
func (s *PasswordStore) List() ([]string, error) {
	if err := s.checkUnlocked(); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(s.secrets))
	for k := range s.secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored secrets.
func (s *PasswordStore) Len() (int, error) {
	if err := s.checkUnlocked(); err != nil {
		return 0, err
	}
	return len(s.secrets), nil
}

// Snapshot returns a plain copy of every secret for template resolution.
// The copy cannot be wiped, so it should be dropped as soon as it is used.
func (s *PasswordStore) Snapshot() (map[string]string, error) {
	if err := s.checkUnlocked(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(s.secrets))
	for k, v := range s.secrets {
		out[k] = v.Reveal()
	}
	return out, nil
}

// Lock wipes the in-memory secrets. The store must be unlocked again before use.
func (s *PasswordStore) Lock() {
	s.replace(nil)
}

// Save encrypts the whole map under a key derived from password and atomically
// replaces the store file. Every call uses a fresh random nonce.
func (s *PasswordStore) Save(password Secret) error {
	if err := s.checkUnlocked(); err != nil {
		return err
	}

	plaintext, err := encodeSecrets(s.secrets)
	if err != nil {
		return err
	}
	defer wipe(plaintext)

	gcm, destroy, err := s.aead(password)
	if err != nil {
		return err
	}
	defer destroy()

	out := make([]byte, NonceSize, NonceSize+len(plaintext)+gcm.Overhead())
	if _, err := rand.Read(out); err != nil {
		return fmt.Errorf("%w: failed to generate nonce: %w", kerrors.ErrEncryptFailed, err)
	}
	out = gcm.Seal(out, out[:NonceSize], plaintext, nil)

	if err := utils.WriteFileAtomic(s.path, out, 0600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

// aead derives the store key and builds an AES-GCM cipher from it. The
// returned function destroys the key and must be called on every path.
func (s *PasswordStore) aead(password Secret) (cipher.AEAD, func(), error) {
	key, err := DeriveKey(password, s.salt, s.params)
	if err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		key.Destroy()
		return nil, nil, fmt.Errorf("%w: %w", kerrors.ErrEncryptFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		key.Destroy()
		return nil, nil, fmt.Errorf("%w: %w", kerrors.ErrEncryptFailed, err)
	}
	return gcm, key.Destroy, nil
}

func (s *PasswordStore) checkUnlocked() error {
	if s.secrets == nil {
		return fmt.Errorf("%w: store not unlocked", kerrors.ErrCorruptStore)
	}
	return nil
}

func (s *PasswordStore) replace(secrets map[string]Secret) {
	for k, v := range s.secrets {
		v.Zero()
		delete(s.secrets, k)
	}
	s.secrets = secrets
}

// encodeSecrets serializes the map as a JSON object with keys in sorted order.
func encodeSecrets(secrets map[string]Secret) ([]byte, error) {
	plain := make(map[string]string, len(secrets))
	for k, v := range secrets {
		plain[k] = v.Reveal()
	}

	data, err := json.Marshal(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize secrets: %w", kerrors.ErrEncryptFailed, err)
	}
	return data, nil
}

func decodeSecrets(plaintext []byte) (map[string]Secret, error) {
	var plain map[string]string
	if err := json.Unmarshal(plaintext, &plain); err != nil {
		return nil, fmt.Errorf("%w: decrypted contents are not a JSON object of strings", kerrors.ErrCorruptStore)
	}
	if plain == nil {
		return nil, fmt.Errorf("%w: decrypted contents are not a JSON object of strings", kerrors.ErrCorruptStore)
	}

	secrets := make(map[string]Secret, len(plain))
	for k, v := range plain {
		secrets[k] = FromString(v)
	}
	return secrets, nil
}
