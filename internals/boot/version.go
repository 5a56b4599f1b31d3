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
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/openSUSE/sdbootutil-sub000/internals/osutil"
)

// versionMarkers are the byte sequences that delimit the version string
// embedded in a bootloader EFI image, tried in order.
var versionMarkers = []struct {
	start, end []byte
}{
	{[]byte("LoaderInfo: systemd-boot "), []byte(" ####")},
	{[]byte("GNU GRUB  version %s\x00"), []byte("\x00")},
}

// ExtractVersion scans content for a version string delimited by the
// given markers. It is total over arbitrary input: ok is false when the
// markers are absent, the delimited bytes are not valid UTF-8, or the
// span between them is empty. A bootloader version is never the empty
// string, so adjacent markers count as no version at all.
func ExtractVersion(content, start, end []byte) (version string, ok bool) {
	i := bytes.Index(content, start)
	if i < 0 {
		return "", false
	}
	rest := content[i+len(start):]
	j := bytes.Index(rest, end)
	if j < 0 {
		return "", false
	}
	v := rest[:j]
	if len(v) == 0 || !utf8.Valid(v) {
		return "", false
	}
	return string(v), true
}

// versionFromImage reads an EFI image and extracts its embedded version.
func versionFromImage(path string) (string, error) {
	if !osutil.CanStat(path) {
		return "", fmt.Errorf("file does not exist: %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	for _, m := range versionMarkers {
		if v, ok := ExtractVersion(content, m.start, m.end); ok {
			return v, nil
		}
	}
	return "", errors.New("version not found")
}

// BootloaderVersion determines the version of the bootloader associated
// with the given snapshot. An explicit image path wins; otherwise an
// installed shim redirects to the chained grub.efi on the ESP, and
// failing that the snapshot's own bootloader image is inspected.
func (m *Manager) BootloaderVersion(snapshot *uint64, image string, env *Env) (string, error) {
	switch {
	case image != "":
	case osutil.CanStat(filepath.Join(underOverride(env.Override, env.Shimdir), "shim.efi")):
		image = filepath.Join(underOverride(env.Override, env.BootRoot), env.BootDst, "grub.efi")
	default:
		path, err := FindBootloader(snapshot, env.FirmwareArch, env.Override)
		if err != nil {
			return "", err
		}
		image = path
	}
	return versionFromImage(image)
}
