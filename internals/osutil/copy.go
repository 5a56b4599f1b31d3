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

	"golang.org/x/sys/unix"
)

// WriteFileSync writes data to path and syncs the file to disk before
// closing it. Boot assets go through this so a crash right after an
// update cannot leave a truncated image on the ESP.
func WriteFileSync(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := unix.Fsync(int(f.Fd())); err != nil {
		f.Close()
		return fmt.Errorf("cannot sync %s: %v", path, err)
	}
	return f.Close()
}

// CopyFile copies the contents of src to dst, syncing dst to disk. The
// destination is created with 0644 if it does not exist yet.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return WriteFileSync(dst, data, 0644)
}
