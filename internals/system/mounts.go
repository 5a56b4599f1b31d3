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

package system

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openSUSE/sdbootutil-sub000/internals/osutil"
)

// MountUUIDSource returns the UUID and source device of the given mount
// point via findmnt. Under a path override it returns fixed test values.
func MountUUIDSource(run Runner, mountPoint, override string) (uuid, source string, err error) {
	if override != "" {
		return "123456789", "sda1", nil
	}
	out, err := run.Output("findmnt", mountPoint, "-v", "-r", "-n", "-o", "UUID,SOURCE")
	if err != nil {
		return "", "", fmt.Errorf("findmnt call failed: %v", err)
	}
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return "", "", fmt.Errorf("cannot parse findmnt output %q", out)
	}
	return fields[0], fields[1], nil
}

// RootSnapshot describes the btrfs snapshot the running root is mounted
// from.
type RootSnapshot struct {
	Prefix string // subvolume holding the snapshots, e.g. /@/.snapshots
	ID     uint64
	Subvol string // full subvolume path of the running root
}

// RootSnapshotInfo determines the snapshot of the running root file
// system from the findmnt source, which names the btrfs subvolume in
// brackets, e.g. "/dev/sda2[/@/.snapshots/1/snapshot]".
func RootSnapshotInfo(run Runner, override string) (*RootSnapshot, error) {
	if override != "" {
		return &RootSnapshot{Prefix: "/.snapshots", ID: 0, Subvol: override}, nil
	}
	_, source, err := MountUUIDSource(run, "/", "")
	if err != nil {
		return nil, err
	}
	open := strings.IndexByte(source, '[')
	end := strings.LastIndexByte(source, ']')
	if open < 0 || end < open {
		return nil, fmt.Errorf("cannot parse btrfs subvolume from %q", source)
	}
	subvol := source[open+1 : end]
	id, err := strconv.ParseUint(path.Base(path.Dir(subvol)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse snapshot number from %q", source)
	}
	return &RootSnapshot{
		Prefix: path.Dir(path.Dir(subvol)),
		ID:     id,
		Subvol: subvol,
	}, nil
}

// mountType reads /proc/mounts under root and returns the file system
// type mounted at mountPoint, or "" when not found.
func mountType(root, mountPoint string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "proc/mounts"))
	if osutil.IsDirNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[1] == mountPoint {
			return fields[2], nil
		}
	}
	return "", nil
}

// IsTransactional reports whether /etc is an overlay mount, which marks
// a transactional-update style read-only system.
func IsTransactional(run Runner, override string) (bool, error) {
	if override != "" {
		fsType, err := mountType(override, "/etc")
		if err != nil {
			return false, err
		}
		return fsType == "overlay" || fsType == "overlayfs", nil
	}
	fsType, err := run.Output("stat", "-f", "-c", "%T", "/etc")
	if err != nil {
		return false, err
	}
	return fsType == "overlayfs", nil
}

// IsSnapshotted reports whether the root file system is btrfs with a
// .snapshots subvolume available, i.e. whether snapshot ids are
// meaningful on this system.
func IsSnapshotted(run Runner, override string) (bool, error) {
	if override != "" {
		fsType, err := mountType(override, "/")
		if err != nil {
			return false, err
		}
		return fsType == "btrfs" && osutil.IsDir(filepath.Join(override, ".snapshots")), nil
	}
	fsType, err := run.Output("stat", "-f", "-c", "%T", "/")
	if err != nil {
		return false, err
	}
	return fsType == "btrfs" && osutil.IsDir("/.snapshots"), nil
}
