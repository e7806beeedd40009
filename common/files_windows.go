//go:build windows
// +build windows

package common

import "os"

func checkDirPermissions(d string, fi os.FileInfo) error {
	return nil
}
