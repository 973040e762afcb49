// Package fileutil writes generated files to disk.
package fileutil

import (
	"os"
	"path/filepath"
)

// AtomicWrite writes data to path through a temporary file in the same
// directory and a rename, so readers never see a partial file.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pulse-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}

	// Same-filesystem rename is atomic on POSIX.
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
