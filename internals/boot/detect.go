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

package boot

import (
	"errors"
	"path/filepath"

	"github.com/openSUSE/sdbootutil-sub000/internals/osutil"
)

// Bootloader names understood by the detector.
const (
	NameSdboot = "systemd-boot"
	NameGrub2  = "grub2"
)

// FindSdboot returns the path of the systemd-boot EFI image inside the
// given snapshot. When the primary location is missing the legacy one
// under usr/lib/systemd is returned, whether or not it exists.
func FindSdboot(snapshot *uint64, arch, override string) string {
	root := SnapshotRoot(snapshot, override)
	path := filepath.Join(root, "usr/lib/systemd-boot", "systemd-boot"+arch+".efi")
	if !osutil.CanStat(path) {
		path = filepath.Join(root, "usr/lib/systemd/boot/efi", "systemd-boot"+arch+".efi")
	}
	return path
}

// FindGrub2 returns the path of the GRUB2 EFI image inside the given
// snapshot. GRUB images are laid out by host architecture, not by the
// firmware architecture bootctl reports.
func FindGrub2(snapshot *uint64, override string) string {
	root := SnapshotRoot(snapshot, override)
	path := filepath.Join(root, "usr/share/efi", HostArch(), "grub.efi")
	if !osutil.CanStat(path) {
		path = filepath.Join(root, "usr/share/grub2", HostArch()+"-efi", "grub.efi")
	}
	return path
}

// IsSdboot reports whether the snapshot boots via systemd-boot. A tree
// carrying both bootloaders counts as GRUB2, since that is what the
// installer would have chained.
func IsSdboot(snapshot *uint64, arch, override string) bool {
	return osutil.CanStat(FindSdboot(snapshot, arch, override)) &&
		!osutil.CanStat(FindGrub2(snapshot, override))
}

// IsGrub2 reports whether the snapshot ships a GRUB2 EFI image.
func IsGrub2(snapshot *uint64, override string) bool {
	return osutil.CanStat(FindGrub2(snapshot, override))
}

// Bootloader names the bootloader installed in the snapshot.
func Bootloader(snapshot *uint64, arch, override string) (string, error) {
	switch {
	case IsSdboot(snapshot, arch, override):
		return NameSdboot, nil
	case IsGrub2(snapshot, override):
		return NameGrub2, nil
	}
	return "", errors.New("bootloader not detected")
}

// FindBootloader returns the path of the EFI image of the detected
// bootloader inside the snapshot.
func FindBootloader(snapshot *uint64, arch, override string) (string, error) {
	switch {
	case IsSdboot(snapshot, arch, override):
		return FindSdboot(snapshot, arch, override), nil
	case IsGrub2(snapshot, override):
		return FindGrub2(snapshot, override), nil
	}
	return "", errors.New("bootloader not detected")
}

// DetermineBootDst returns the vendor directory under the ESP that the
// detected bootloader installs into.
func DetermineBootDst(snapshot *uint64, arch, override string) (string, error) {
	switch {
	case IsSdboot(snapshot, arch, override):
		return "/EFI/systemd", nil
	case IsGrub2(snapshot, override):
		return "/EFI/opensuse", nil
	}
	return "", errors.New("unsupported bootloader or unable to determine bootloader")
}
