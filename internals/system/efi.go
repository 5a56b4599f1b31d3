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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openSUSE/sdbootutil-sub000/internals/logger"
)

const bootEntryLabel = "openSUSE Boot Manager"

var sysBlockDir = "/sys/class/block"

// PartitionNumber reads the partition index of a block device node from
// /sys/class/block.
func PartitionNumber(dev string) (uint32, error) {
	data, err := os.ReadFile(filepath.Join(sysBlockDir, filepath.Base(dev), "partition"))
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("cannot parse partition number for %s: %v", dev, err)
	}
	return uint32(n), nil
}

// DriveAndPartition resolves a partition device such as /dev/sda1 into
// its parent drive and partition number, using the /sys/class/block
// hierarchy.
func DriveAndPartition(dev string) (drive string, partno uint32, err error) {
	link, err := filepath.EvalSymlinks(filepath.Join(sysBlockDir, filepath.Base(dev)))
	if err != nil {
		return "", 0, err
	}
	partno, err = PartitionNumber(dev)
	if err != nil {
		return "", 0, err
	}
	return filepath.Join("/dev", filepath.Base(filepath.Dir(link))), partno, nil
}

// CreateEFIBootEntry registers the openSUSE boot entry with the firmware
// unless one already exists. It is skipped entirely under a path
// override, where there is no firmware to talk to.
func CreateEFIBootEntry(run Runner, drive string, partno uint32, entry, override string) error {
	if override != "" {
		return nil
	}
	out, err := run.Output("efibootmgr")
	if err != nil {
		return err
	}
	if strings.Contains(out, bootEntryLabel) {
		logger.Debugf("EFI entry for openSUSE already exists, skipping")
		return nil
	}
	_, err = run.Output("efibootmgr",
		"-q", "--create",
		"--disk="+drive,
		fmt.Sprintf("--part=%d", partno),
		"--label="+bootEntryLabel,
		"--loader="+entry)
	if err != nil {
		return err
	}
	logger.Noticef("Created EFI boot entry for openSUSE")
	return nil
}
