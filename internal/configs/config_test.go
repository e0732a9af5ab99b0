package configs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
	"github.com/PolarWolf314/enject/internal/secrets"
)

func testSalt() []byte {
	return bytes.Repeat([]byte{0xab}, secrets.SaltSize)
}

func TestNewConfig(t *testing.T) {
	params := secrets.DefaultKdfParams()
	config := NewConfig(testSalt(), params)

	if config.Backend != BackendPassword || config.Kdf != KdfArgon2id || config.Version != ConfigVersion {
		t.Errorf("Unexpected header fields: %+v", config)
	}
	if config.KdfParams() != params {
		t.Errorf("Expected params %+v, got %+v", params, config.KdfParams())
	}
	if config.Salt != strings.Repeat("ab", secrets.SaltSize) {
		t.Errorf("Unexpected salt hex %q", config.Salt)
	}
	if _, err := uuid.Parse(config.StoreID); err != nil {
		t.Errorf("Expected store ID to be a UUID, got %q", config.StoreID)
	}

	salt, err := config.SaltBytes()
	if err != nil {
		t.Fatalf("SaltBytes failed: %v", err)
	}
	if !bytes.Equal(salt, testSalt()) {
		t.Error("Salt did not round trip")
	}
}

func TestWriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DirName)
	original := NewConfig(testSalt(), secrets.KdfParams{MemoryCost: 8192, TimeCost: 1, Parallelism: 1})

	if err := Write(dir, original); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Read(dir)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if *loaded != *original {
		t.Errorf("Expected %+v, got %+v", original, loaded)
	}
}

func TestRead_NotInitialized(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), DirName))
	if !errors.Is(err, kerrors.ErrStoreNotInitialized) {
		t.Fatalf("Expected ErrStoreNotInitialized, got %v", err)
	}
}

func TestRead_LegacyConfigWithoutStoreID(t *testing.T) {
	dir := t.TempDir()
	content := `backend = "password"
version = 1
kdf = "argon2id"
m_cost = 65536
t_cost = 3
p_cost = 4
salt = "` + strings.Repeat("01", secrets.SaltSize) + `"
`
	if err := os.WriteFile(ConfigPath(dir), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	config, err := Read(dir)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if config.StoreID != "" {
		t.Errorf("Expected empty store ID, got %q", config.StoreID)
	}
	if config.KdfParams() != secrets.DefaultKdfParams() {
		t.Errorf("Unexpected params %+v", config.KdfParams())
	}
}

func TestRead_Invalid(t *testing.T) {
	validSalt := strings.Repeat("01", secrets.SaltSize)

	tests := []struct {
		name    string
		content string
	}{
		{"NotTOML", "this is not = = toml"},
		{"UnknownBackend", `backend = "keyring"` + "\n" + `kdf = "argon2id"` + "\nm_cost = 8192\nt_cost = 1\np_cost = 1\nsalt = \"" + validSalt + "\""},
		{"UnknownKdf", `backend = "password"` + "\n" + `kdf = "scrypt"` + "\nm_cost = 8192\nt_cost = 1\np_cost = 1\nsalt = \"" + validSalt + "\""},
		{"BadSaltHex", `backend = "password"` + "\n" + `kdf = "argon2id"` + "\nm_cost = 8192\nt_cost = 1\np_cost = 1\nsalt = \"zz\""},
		{"ShortSalt", `backend = "password"` + "\n" + `kdf = "argon2id"` + "\nm_cost = 8192\nt_cost = 1\np_cost = 1\nsalt = \"0102\""},
		{"ZeroTimeCost", `backend = "password"` + "\n" + `kdf = "argon2id"` + "\nm_cost = 8192\nt_cost = 0\np_cost = 1\nsalt = \"" + validSalt + "\""},
		{"ParallelismOverflow", `backend = "password"` + "\n" + `kdf = "argon2id"` + "\nm_cost = 8192\nt_cost = 1\np_cost = 300\nsalt = \"" + validSalt + "\""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(ConfigPath(dir), []byte(tc.content), 0600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			_, err := Read(dir)
			if !errors.Is(err, kerrors.ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
