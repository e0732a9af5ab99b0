package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("CreatesFileWithMode", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "store")

		if err := WriteFileAtomic(path, []byte("first"), 0600); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(data) != "first" {
			t.Errorf("Expected %q, got %q", "first", data)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if os.PathSeparator == '/' && info.Mode().Perm() != 0600 {
			t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
		}
	})

	t.Run("ReplacesExistingFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "store")

		if err := os.WriteFile(path, []byte("old contents that are longer"), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if err := WriteFileAtomic(path, []byte("new"), 0600); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}

		data, _ := os.ReadFile(path)
		if string(data) != "new" {
			t.Errorf("Expected %q, got %q", "new", data)
		}
	})

	t.Run("SyncsDirectoryAfterRename", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "store")

		original := syncDir
		t.Cleanup(func() { syncDir = original })

		var synced string
		syncDir = func(d string) error {
			data, err := os.ReadFile(path)
			if err != nil || string(data) != "new" {
				t.Errorf("Directory synced before the rename: %q, %v", data, err)
			}
			synced = d
			return original(d)
		}

		if err := WriteFileAtomic(path, []byte("new"), 0600); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}
		if synced != dir {
			t.Errorf("Expected %s to be synced, got %q", dir, synced)
		}
	})

	t.Run("LeavesNoTemporaryFiles", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "store")

		for i := 0; i < 3; i++ {
			if err := WriteFileAtomic(path, []byte("x"), 0600); err != nil {
				t.Fatalf("WriteFileAtomic failed: %v", err)
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		if len(entries) != 1 {
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("Expected only the target file, found: %s", strings.Join(names, ", "))
		}
	})

	t.Run("FailsWhenDirectoryMissing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "store")
		if err := WriteFileAtomic(path, []byte("x"), 0600); err == nil {
			t.Fatal("Expected error for missing directory")
		}
	})
}

func TestFindProjectRootFrom(t *testing.T) {
	t.Run("FindsMarkerInAncestor", func(t *testing.T) {
		root := t.TempDir()
		if err := os.Mkdir(filepath.Join(root, ".enject"), 0700); err != nil {
			t.Fatalf("Mkdir failed: %v", err)
		}
		nested := filepath.Join(root, "a", "b")
		if err := os.MkdirAll(nested, 0755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}

		found, err := FindProjectRootFrom(nested, ".enject", ".enveil")
		if err != nil {
			t.Fatalf("FindProjectRootFrom failed: %v", err)
		}
		if found != root {
			t.Errorf("Expected %s, got %s", root, found)
		}
	})

	t.Run("FindsLegacyMarker", func(t *testing.T) {
		root := t.TempDir()
		if err := os.Mkdir(filepath.Join(root, ".enveil"), 0700); err != nil {
			t.Fatalf("Mkdir failed: %v", err)
		}

		found, err := FindProjectRootFrom(root, ".enject", ".enveil")
		if err != nil {
			t.Fatalf("FindProjectRootFrom failed: %v", err)
		}
		if found != root {
			t.Errorf("Expected %s, got %s", root, found)
		}
	})

	t.Run("IgnoresMarkerFiles", func(t *testing.T) {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, ".enject"), nil, 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		found, err := FindProjectRootFrom(root, ".enject-does-not-exist-anywhere")
		if err != nil {
			t.Fatalf("FindProjectRootFrom failed: %v", err)
		}
		if found != "" {
			t.Errorf("Expected no root, got %s", found)
		}
	})
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "file"), []byte("data"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "copy")
	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("CopyDir failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "sub", "file"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("Expected %q, got %q", "data", data)
	}
}

func TestTrimTrailingNewline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"NoNewline", "value", "value"},
		{"LF", "value\n", "value"},
		{"CRLF", "value\r\n", "value"},
		{"OnlyOneStripped", "value\n\n", "value\n"},
		{"Empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := string(TrimTrailingNewline([]byte(tc.input)))
			if got != tc.expected {
				t.Errorf("TrimTrailingNewline(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestWipe(t *testing.T) {
	b := []byte("hunter2")
	Wipe(b)
	for i, c := range b {
		if c != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
}
