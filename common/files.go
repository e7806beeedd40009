// Package common contains filesystem helpers shared by seedrand packages.
package common

import (
	"fmt"
	"os"
	"path/filepath"
)

const permDir = os.FileMode(0o700)

// Mkdir creates a directory iff it does not exist, and otherwise
// ensures that the filesystem permissions are sufficiently restrictive.
func Mkdir(d string) error {
	fi, err := os.Lstat(d)
	if err != nil {
		// Iff the directory does not exist, create it.
		if os.IsNotExist(err) {
			if err = os.MkdirAll(d, permDir); err == nil {
				return nil
			}
		}
		return err
	}

	if !fi.Mode().IsDir() {
		return fmt.Errorf("common/Mkdir: path '%s' is not a directory", d)
	}
	return checkDirPermissions(d, fi)
}

// WriteFileAtomic writes data to a temporary file next to path and
// renames it over path, so readers observe either the old or the new
// contents.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // nolint: errcheck

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), perm)
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
