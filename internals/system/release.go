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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openSUSE/sdbootutil-sub000/internals/osutil"
)

// OSRelease carries the os-release fields boot entry naming needs.
type OSRelease struct {
	ID         string
	VersionID  string
	PrettyName string
	ImageID    string
}

// ReadOSRelease parses os-release from the given file system root,
// preferring the vendor copy under usr/lib over the one in etc.
func ReadOSRelease(root string) (*OSRelease, error) {
	for _, rel := range []string{"usr/lib/os-release", "etc/os-release"} {
		path := filepath.Join(root, rel)
		if !osutil.CanStat(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		release := &OSRelease{}
		for _, line := range strings.Split(string(data), "\n") {
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			switch strings.TrimSpace(key) {
			case "ID":
				release.ID = value
			case "VERSION_ID":
				release.VersionID = value
			case "PRETTY_NAME":
				release.PrettyName = value
			case "IMAGE_ID":
				release.ImageID = value
			}
		}
		return release, nil
	}
	return nil, fmt.Errorf("cannot find os-release under %s", root)
}

// ReadMachineID reads etc/machine-id from the given root. On
// transactional systems the snapshot's copy lives in the overlay under
// the running system instead, so snapshot and override locate it there.
func ReadMachineID(root string, snapshot *uint64, transactional bool, override string) (string, error) {
	path := filepath.Join(root, "etc/machine-id")
	if transactional && snapshot != nil {
		path = filepath.Join(override, "var/lib/overlay", strconv.FormatUint(*snapshot, 10), "etc/machine-id")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", fmt.Errorf("machine-id at %s is empty", path)
	}
	return id, nil
}

// SettleEntryToken resolves the boot entry token the way bootctl install
// does: an existing etc/kernel/entry-token always wins, then the
// requested mode picks between the machine ID and os-release fields.
// Any other mode value is taken as a literal token.
func SettleEntryToken(root, mode, machineID string, release *OSRelease) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "etc/kernel/entry-token"))
	if err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
	}
	switch mode {
	case "", "auto", "machine-id":
		if machineID == "" {
			return "", errors.New("cannot determine entry token: machine ID unknown")
		}
		return machineID, nil
	case "os-id":
		if release == nil || release.ID == "" {
			return "", errors.New("cannot determine entry token: os-release has no ID")
		}
		return release.ID, nil
	case "os-image":
		if release == nil || release.ImageID == "" {
			return "", errors.New("cannot determine entry token: os-release has no IMAGE_ID")
		}
		return release.ImageID, nil
	}
	return mode, nil
}
