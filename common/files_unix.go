//go:build !windows
// +build !windows

package common

import (
	"fmt"
	"os"
	"syscall"
)

func checkDirPermissions(d string, fi os.FileInfo) error {
	if fm := fi.Mode(); fm.Perm() != permDir {
		return fmt.Errorf("common/Mkdir: path '%s' has invalid permissions: %v. Expected permissions: %v", d, fm.Perm(), permDir)
	}
	if fs, ok := fi.Sys().(*syscall.Stat_t); ok {
		euid := os.Geteuid()
		if euid != int(fs.Uid) {
			return fmt.Errorf("common/Mkdir: path '%s' has invalid owner: %d. Expected owner: %d", d, fs.Uid, euid)
		}
	}
	return nil
}
