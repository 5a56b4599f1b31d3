// Copyright (c) 2024 SUSE LLC
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License version 3 as
// published by the Free Software Foundation.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package osutil

import (
	"fmt"
	"os"
)

// CanStat returns true if stat succeeds on the given path.
// It may return false on a file one cannot stat for other reasons.
func CanStat(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir returns true if the given path can be stat'ed by us and
// is a directory.
func IsDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

// ExistsIsDir returns whether the given path exists, and if so whether
// it is a directory.
func ExistsIsDir(path string) (exists bool, isDir bool) {
	fileInfo, err := os.Stat(path)
	if err == nil {
		exists = true
		isDir = fileInfo.IsDir()
	}
	return exists, isDir
}

// IsDirNotExist tells you whether the given error is one of the "directory
// does not exist" errors you can get when reading a directory.
func IsDirNotExist(err error) bool {
	switch pe := err.(type) {
	case nil:
		return false
	case *os.PathError:
		err = pe.Err
	case *os.LinkError:
		err = pe.Err
	case *os.SyscallError:
		err = pe.Err
	}
	return os.IsNotExist(err)
}

// MkdirAllIfMissing creates path and any missing parents, keeping an
// existing directory untouched. A non-directory in the way is an error.
func MkdirAllIfMissing(path string, perm os.FileMode) error {
	exists, isDir := ExistsIsDir(path)
	if exists && !isDir {
		return fmt.Errorf("%s exists and is not a directory", path)
	}
	if exists {
		return nil
	}
	return os.MkdirAll(path, perm)
}
