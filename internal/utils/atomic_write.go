package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	lockFileSuffix      = ".lock"
	temporaryFilePrefix = ".tmp-"
)

// WriteFileLocked replaces the file at path with data while holding an
// exclusive lock on path + ".lock". Readers see either the old or the new
// content because the data lands in a temporary sibling that is renamed into place.
func WriteFileLocked(path string, data []byte, permissions os.FileMode) error {
	directory := filepath.Dir(path)
	if makeDirectoryError := os.MkdirAll(directory, 0o755); makeDirectoryError != nil {
		return fmt.Errorf("create directory %s: %w", directory, makeDirectoryError)
	}

	lock := flock.New(path + lockFileSuffix)
	if lockError := lock.Lock(); lockError != nil {
		return fmt.Errorf("acquire lock on %s: %w", path, lockError)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	temporaryFile, createError := os.CreateTemp(directory, temporaryFilePrefix+filepath.Base(path)+"-*")
	if createError != nil {
		return fmt.Errorf("create temporary file for %s: %w", path, createError)
	}
	temporaryPath := temporaryFile.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(data); writeError != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf("write temporary file for %s: %w", path, writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		_ = temporaryFile.Close()
		return fmt.Errorf("sync temporary file for %s: %w", path, syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf("close temporary file for %s: %w", path, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, permissions); chmodError != nil {
		return fmt.Errorf("set permissions on %s: %w", temporaryPath, chmodError)
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		return fmt.Errorf("rename %s to %s: %w", temporaryPath, path, renameError)
	}
	renamed = true
	return nil
}
