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
	"errors"
	"fmt"
	"strings"
)

// BootctlInfo holds the firmware facts reported by bootctl.
type BootctlInfo struct {
	FirmwareArch string // EFI architecture suffix, e.g. "x64"
	EntryToken   string // token bootctl uses to name boot entries
	BootRoot     string // mount point of $BOOT, normally the ESP
}

// Bootctl collects firmware architecture, entry token and boot root from
// `bootctl --no-pager`. Under a path override it returns fixed values so
// tests and chroots never shell out.
func Bootctl(run Runner, override string) (*BootctlInfo, error) {
	if override != "" {
		return &BootctlInfo{
			FirmwareArch: "x64",
			EntryToken:   "entry_token",
			BootRoot:     "/boot/efi",
		}, nil
	}
	out, err := run.Output("bootctl", "--no-pager")
	if err != nil {
		return nil, fmt.Errorf("bootctl call failed: %v", err)
	}
	info := &BootctlInfo{}
	for _, line := range strings.Split(out, "\n") {
		switch {
		case info.FirmwareArch == "" && strings.Contains(line, "Firmware Arch: "):
			info.FirmwareArch = strings.SplitN(line, "Firmware Arch: ", 2)[1]
		case info.EntryToken == "" && strings.Contains(line, "token: "):
			rest := strings.SplitN(line, "token: ", 2)[1]
			if i := strings.IndexByte(rest, ' '); i >= 0 {
				rest = rest[:i]
			}
			info.EntryToken = rest
		case info.BootRoot == "" && strings.Contains(line, "$BOOT: "):
			rest := strings.SplitN(line, "$BOOT: ", 2)[1]
			if i := strings.IndexByte(rest, ' '); i >= 0 {
				rest = rest[:i]
			}
			info.BootRoot = rest
		}
	}
	if info.FirmwareArch == "" {
		return nil, errors.New("firmware arch not found")
	}
	if info.EntryToken == "" {
		return nil, errors.New("entry token not found")
	}
	if info.BootRoot == "" {
		return nil, errors.New("boot root not found")
	}
	return info, nil
}
