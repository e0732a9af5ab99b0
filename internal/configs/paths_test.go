package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/enject/internal/errors"
)

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
}

func TestResolveDir(t *testing.T) {
	t.Run("NeitherExists", func(t *testing.T) {
		root := t.TempDir()
		dir, legacy, err := ResolveDir(root)
		if err != nil {
			t.Fatalf("ResolveDir failed: %v", err)
		}
		if dir != filepath.Join(root, DirName) || legacy {
			t.Errorf("Expected canonical dir, got %s (legacy=%v)", dir, legacy)
		}
	})

	t.Run("CanonicalOnly", func(t *testing.T) {
		root := t.TempDir()
		mkdir(t, filepath.Join(root, DirName))

		dir, legacy, _ := ResolveDir(root)
		if dir != filepath.Join(root, DirName) || legacy {
			t.Errorf("Expected canonical dir, got %s (legacy=%v)", dir, legacy)
		}
	})

	t.Run("LegacyOnly", func(t *testing.T) {
		root := t.TempDir()
		mkdir(t, filepath.Join(root, LegacyDirName))

		dir, legacy, _ := ResolveDir(root)
		if dir != filepath.Join(root, LegacyDirName) || !legacy {
			t.Errorf("Expected legacy dir, got %s (legacy=%v)", dir, legacy)
		}
	})

	t.Run("BothPrefersCanonical", func(t *testing.T) {
		root := t.TempDir()
		mkdir(t, filepath.Join(root, DirName))
		mkdir(t, filepath.Join(root, LegacyDirName))

		dir, legacy, _ := ResolveDir(root)
		if dir != filepath.Join(root, DirName) || legacy {
			t.Errorf("Expected canonical dir, got %s (legacy=%v)", dir, legacy)
		}
	})
}

func TestMigrateLegacyDir(t *testing.T) {
	t.Run("MovesAndBacksUp", func(t *testing.T) {
		root := t.TempDir()
		legacyDir := filepath.Join(root, LegacyDirName)
		mkdir(t, legacyDir)
		if err := os.WriteFile(filepath.Join(legacyDir, StoreFileName), []byte("ciphertext"), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		backup, err := MigrateLegacyDir(root)
		if err != nil {
			t.Fatalf("MigrateLegacyDir failed: %v", err)
		}
		if backup != filepath.Join(root, LegacyBackupDirName) {
			t.Errorf("Unexpected backup path %s", backup)
		}

		for _, dir := range []string{filepath.Join(root, DirName), backup} {
			data, err := os.ReadFile(filepath.Join(dir, StoreFileName))
			if err != nil {
				t.Fatalf("Expected store in %s: %v", dir, err)
			}
			if string(data) != "ciphertext" {
				t.Errorf("Unexpected store contents in %s", dir)
			}
		}

		if _, err := os.Stat(legacyDir); !os.IsNotExist(err) {
			t.Error("Expected legacy directory to be gone")
		}
	})

	t.Run("NothingToMigrate", func(t *testing.T) {
		_, err := MigrateLegacyDir(t.TempDir())
		if !errors.Is(err, kerrors.ErrStoreNotInitialized) {
			t.Fatalf("Expected ErrStoreNotInitialized, got %v", err)
		}
	})

	t.Run("CanonicalAlreadyExists", func(t *testing.T) {
		root := t.TempDir()
		mkdir(t, filepath.Join(root, DirName))
		mkdir(t, filepath.Join(root, LegacyDirName))

		_, err := MigrateLegacyDir(root)
		if !errors.Is(err, kerrors.ErrStoreAlreadyInitialized) {
			t.Fatalf("Expected ErrStoreAlreadyInitialized, got %v", err)
		}
	})

	t.Run("BackupAlreadyExists", func(t *testing.T) {
		root := t.TempDir()
		mkdir(t, filepath.Join(root, LegacyDirName))
		mkdir(t, filepath.Join(root, LegacyBackupDirName))

		if _, err := MigrateLegacyDir(root); err == nil {
			t.Fatal("Expected error when backup exists")
		}
		if _, err := os.Stat(filepath.Join(root, LegacyDirName)); err != nil {
			t.Error("Legacy directory must be left in place")
		}
	})
}

func TestGlobalDir(t *testing.T) {
	t.Run("OverrideWins", func(t *testing.T) {
		t.Setenv(GlobalDirEnv, "/from/env")
		dir, err := GlobalDir("/explicit")
		if err != nil || dir != "/explicit" {
			t.Errorf("Expected /explicit, got %s (%v)", dir, err)
		}
	})

	t.Run("EnvVar", func(t *testing.T) {
		t.Setenv(GlobalDirEnv, "/from/env")
		dir, err := GlobalDir("")
		if err != nil || dir != "/from/env" {
			t.Errorf("Expected /from/env, got %s (%v)", dir, err)
		}
	})

	t.Run("Default", func(t *testing.T) {
		t.Setenv(GlobalDirEnv, "")
		dir, err := GlobalDir("")
		if err != nil {
			t.Skipf("no user config dir: %v", err)
		}
		if filepath.Base(dir) != "global" || filepath.Base(filepath.Dir(dir)) != "enject" {
			t.Errorf("Unexpected default global dir %s", dir)
		}
	})
}

func TestSettings(t *testing.T) {
	t.Run("Project", func(t *testing.T) {
		root := t.TempDir()
		mkdir(t, filepath.Join(root, LegacyDirName))

		s, err := ProjectSettings(root)
		if err != nil {
			t.Fatalf("ProjectSettings failed: %v", err)
		}
		if !s.Legacy || s.Global || s.Root != root {
			t.Errorf("Unexpected settings %+v", s)
		}
		if s.StorePath() != filepath.Join(root, LegacyDirName, StoreFileName) {
			t.Errorf("Unexpected store path %s", s.StorePath())
		}
		if s.ConfigPath() != filepath.Join(root, LegacyDirName, ConfigFileName) {
			t.Errorf("Unexpected config path %s", s.ConfigPath())
		}
		if s.AuditPath() != filepath.Join(root, LegacyDirName, AuditFileName) {
			t.Errorf("Unexpected audit path %s", s.AuditPath())
		}
	})

	t.Run("Global", func(t *testing.T) {
		dir := t.TempDir()
		s, err := GlobalSettings(dir)
		if err != nil {
			t.Fatalf("GlobalSettings failed: %v", err)
		}
		if !s.Global || s.Dir != dir {
			t.Errorf("Unexpected settings %+v", s)
		}
	})
}
