// Package fsutil provides atomic filesystem helpers shared by the installers.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ndf-zz/metarace-install/internal/messages"
)

// WriteFileAtomic writes data to filename by writing a temporary file in the
// same directory and renaming it into place. The destination directory is
// fsynced afterwards so a crash cannot leave a half-written launcher visible
// to the desktop menu.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.FsutilCreateTempFileFmt, filename, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilSetPermissionsFmt, filename, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilWriteTempFileFmt, filename, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilSyncTempFileFmt, filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.FsutilCloseTempFileFmt, filename, err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf(messages.FsutilRenameTempFileFmt, filename, err)
	}

	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf(messages.FsutilOpenDirFmt, dir, err)
	}
	defer func() {
		_ = d.Close()
	}()
	if err := d.Sync(); err != nil {
		return fmt.Errorf(messages.FsutilSyncDirFmt, dir, err)
	}
	return nil
}
