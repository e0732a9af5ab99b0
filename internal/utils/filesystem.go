package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// FindProjectRoot traverses up from the working directory looking for a directory
// that contains any of the given marker directories (e.g. ".enject").
// Returns the empty string if none is found before the filesystem root or the
// parent of the user's home directory.
func FindProjectRoot(markers ...string) (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return FindProjectRootFrom(currentDir, markers...)
}

// FindProjectRootFrom is FindProjectRoot starting at an explicit directory.
func FindProjectRootFrom(startDir string, markers ...string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	stopDir := filepath.Dir(homeDir)

	currentDir := startDir
	for {
		if currentDir == stopDir {
			return "", nil
		}

		for _, marker := range markers {
			info, err := os.Stat(filepath.Join(currentDir, marker))
			if err == nil {
				if info.IsDir() {
					return currentDir, nil
				}
			} else if !os.IsNotExist(err) {
				return "", fmt.Errorf("error checking for %s directory at %s: %w", marker, currentDir, err)
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

// WriteFileAtomic replaces path with data so that readers observe either the old
// or the new contents, never a partial write. The data goes to a uniquely named
// temporary file in the same directory, is synced to disk, and is then renamed
// over path. The directory is synced afterwards so the rename itself survives
// a crash. The temporary file is removed on any failure.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	if err := syncDir(dir); err != nil {
		return fmt.Errorf("failed to sync %s: %w", dir, err)
	}
	return nil
}

// syncDir flushes a directory's entries to disk. Windows cannot open a
// directory for syncing, so it is a no-op there.
var syncDir = func(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return err
	}
	return d.Close()
}

// CopyDir recursively copies src into dst, preserving file modes.
func CopyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode().Perm())
	})
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
