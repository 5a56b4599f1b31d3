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

// Package boot implements the bootloader lifecycle of a btrfs snapshot
// based system: detecting whether a snapshot carries systemd-boot or
// GRUB2, extracting and comparing bootloader versions, and installing or
// updating the images on the EFI system partition with rollback on
// failure.
package boot

import (
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/openSUSE/sdbootutil-sub000/internals/system"
)

// Manager carries out the bootloader operations. External commands go
// through the injected Runner so tests never touch the live firmware.
type Manager struct {
	run system.Runner
}

// NewManager returns a Manager using the given command runner.
func NewManager(run system.Runner) *Manager {
	return &Manager{run: run}
}

// Env captures the resolved system facts a bootloader operation needs.
type Env struct {
	FirmwareArch string // EFI architecture suffix reported by bootctl, e.g. "x64"
	BootRoot     string // mount point of the ESP
	BootDst      string // vendor directory under the ESP, e.g. /EFI/systemd
	Shimdir      string // directory the shim package installs into
	EntryToken   string // token naming this installation's boot entries
	NoVariables  bool   // never touch UEFI variables
	Override     string // alternative root for tests and chroots, "" on the live system
}

// hostArchMap translates Go architecture names into the uname machine
// names used in openSUSE file system layouts.
var hostArchMap = map[string]string{
	"386":     "i386",
	"amd64":   "x86_64",
	"arm":     "armv7hl",
	"arm64":   "aarch64",
	"ppc64le": "powerpc64le",
	"riscv64": "riscv64",
	"s390x":   "s390x",
}

// HostArch returns the uname style name of the architecture this binary
// was built for. GRUB2 install paths are keyed on it, unlike systemd-boot
// paths which use the firmware architecture reported by bootctl.
func HostArch() string {
	if arch, ok := hostArchMap[runtime.GOARCH]; ok {
		return arch
	}
	return runtime.GOARCH
}

// DefaultShimdir is where the shim package installs its EFI binaries.
func DefaultShimdir() string {
	return "/usr/share/efi/" + HostArch()
}

// SnapshotRoot returns the directory a snapshot's file system tree is
// mounted at, or the (possibly overridden) system root when snapshot is
// nil.
func SnapshotRoot(snapshot *uint64, override string) string {
	if snapshot == nil {
		if override != "" {
			return override
		}
		return "/"
	}
	return filepath.Join(override, "/.snapshots", strconv.FormatUint(*snapshot, 10), "snapshot")
}

// underOverride roots an absolute path under the test/chroot override.
func underOverride(override, path string) string {
	if override == "" {
		return path
	}
	return filepath.Join(override, path)
}
