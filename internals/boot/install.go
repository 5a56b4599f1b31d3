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
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/canonical/x-go/randutil"

	"github.com/openSUSE/sdbootutil-sub000/internals/logger"
	"github.com/openSUSE/sdbootutil-sub000/internals/osutil"
	"github.com/openSUSE/sdbootutil-sub000/internals/system"
)

const (
	srelContent       = "type1"
	loaderConfContent = "#timeout 3\n#console-mode keep\n"
	grubCfgContent    = "timeout=8\nfunction load_video {\n  true\n}\ninsmod bli\nblscfg\n"
	markerFile        = "installed_by_sdbootutil"
)

// replaceGuarded stages the contents of src into dst under the ledger's
// protection: backup, write to a temporary sibling, fsync, rename.
func replaceGuarded(l *Ledger, src, dst string) error {
	if err := osutil.MkdirAllIfMissing(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	if err := l.Record(dst); err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	staged := dst + "." + randutil.RandomString(6)
	if err := osutil.WriteFileSync(staged, data, 0644); err != nil {
		os.Remove(staged)
		return err
	}
	if err := os.Rename(staged, dst); err != nil {
		os.Remove(staged)
		return err
	}
	return nil
}

// UpdateSdbootConfiguration seeds the loader configuration on the ESP.
// Existing files are left alone so local tweaks survive reinstalls.
func UpdateSdbootConfiguration(bootRoot, override string) error {
	loaderDir := filepath.Join(underOverride(override, bootRoot), "loader")
	if err := osutil.MkdirAllIfMissing(filepath.Join(loaderDir, "entries"), 0755); err != nil {
		return err
	}
	srel := filepath.Join(loaderDir, "entries.srel")
	if !osutil.CanStat(srel) {
		if err := osutil.WriteFileSync(srel, []byte(srelContent), 0644); err != nil {
			return err
		}
	}
	conf := filepath.Join(loaderDir, "loader.conf")
	if !osutil.CanStat(conf) {
		if err := osutil.WriteFileSync(conf, []byte(loaderConfContent), 0644); err != nil {
			return err
		}
	}
	return nil
}

// UpdateGrub2Configuration seeds grub.cfg in the vendor directory and
// the removable fallback location, and stages the bli module next to the
// vendor copy so blscfg can enumerate boot entries.
func UpdateGrub2Configuration(snapshot *uint64, bootRoot, bootDst, override string) error {
	esp := underOverride(override, bootRoot)
	for _, dir := range []string{filepath.Join(esp, bootDst), filepath.Join(esp, "EFI/BOOT")} {
		if err := osutil.MkdirAllIfMissing(dir, 0755); err != nil {
			return err
		}
		cfg := filepath.Join(dir, "grub.cfg")
		if osutil.CanStat(cfg) {
			continue
		}
		if err := osutil.WriteFileSync(cfg, []byte(grubCfgContent), 0644); err != nil {
			return err
		}
	}
	mod := filepath.Join(SnapshotRoot(snapshot, override), "usr/share/grub2", HostArch()+"-efi", "bli.mod")
	if !osutil.CanStat(mod) {
		// older grub2 builds ship no bli module
		logger.Debugf("no bli module at %s, skipping", mod)
		return nil
	}
	dstDir := filepath.Join(esp, bootDst, HostArch()+"-efi")
	if err := osutil.MkdirAllIfMissing(dstDir, 0755); err != nil {
		return err
	}
	return osutil.CopyFile(mod, filepath.Join(dstDir, "bli.mod"))
}

// UpdateRandomSeed writes a fresh 32 byte seed for systemd-boot to mix
// into the early entropy pool. The seed is replaced on every install and
// update so a cloned ESP never reuses one.
func UpdateRandomSeed(bootRoot, override string) error {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return err
	}
	loaderDir := filepath.Join(underOverride(override, bootRoot), "loader")
	if err := osutil.MkdirAllIfMissing(loaderDir, 0755); err != nil {
		return err
	}
	return osutil.WriteFileSync(filepath.Join(loaderDir, "random-seed"), seed, 0600)
}

// CopyBootloader installs the snapshot's EFI image into the vendor
// directory and the removable fallback path EFI/BOOT/BOOT<ARCH>.EFI.
func CopyBootloader(l *Ledger, image, bootRoot, bootDst, firmwareArch, override string) error {
	esp := underOverride(override, bootRoot)
	if err := replaceGuarded(l, image, filepath.Join(esp, bootDst, filepath.Base(image))); err != nil {
		return err
	}
	fallback := "BOOT" + strings.ToUpper(firmwareArch) + ".EFI"
	return replaceGuarded(l, image, filepath.Join(esp, "EFI/BOOT", fallback))
}

// CopyShimFiles installs shim and MokManager from the snapshot's shim
// directory and chains the detected bootloader image as grub.efi, the
// name shim is built to load regardless of the bootloader variant.
// Missing shim files are errors.
func CopyShimFiles(l *Ledger, snapshot *uint64, shimdir, image, bootRoot, bootDst, override string) error {
	srcDir := filepath.Join(SnapshotRoot(snapshot, override), strings.TrimPrefix(shimdir, "/"))
	dstDir := filepath.Join(underOverride(override, bootRoot), bootDst)
	for _, name := range []string{"shim.efi", "MokManager.efi"} {
		src := filepath.Join(srcDir, name)
		if !osutil.CanStat(src) {
			return fmt.Errorf("file does not exist: %s", src)
		}
		if err := replaceGuarded(l, src, filepath.Join(dstDir, name)); err != nil {
			return err
		}
	}
	return replaceGuarded(l, image, filepath.Join(dstDir, "grub.efi"))
}

// WriteBootCSV records the firmware fallback entry description for the
// installed boot chain.
func WriteBootCSV(l *Ledger, entryFile, bootRoot, bootDst, override string) error {
	path := filepath.Join(underOverride(override, bootRoot), bootDst, "boot.csv")
	if err := osutil.MkdirAllIfMissing(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := l.Record(path); err != nil {
		return err
	}
	return osutil.WriteFileSync(path, []byte(entryFile+",openSUSE Boot Manager\n"), 0644)
}

// snapshotShim returns the path of the shim image inside the snapshot's
// shim directory.
func snapshotShim(snapshot *uint64, shimdir, override string) string {
	return filepath.Join(SnapshotRoot(snapshot, override), strings.TrimPrefix(shimdir, "/"), "shim.efi")
}

// Install performs a full bootloader installation into the ESP for the
// given snapshot: loader configuration, random seed, EFI images (shim
// chained when available), boot.csv, the kernel directory named after
// the entry token, the installation marker, and the firmware boot entry.
// Every file replaced on the way is recorded in a rollback ledger that
// is undone on failure.
func (m *Manager) Install(snapshot *uint64, env *Env) error {
	image, err := FindBootloader(snapshot, env.FirmwareArch, env.Override)
	if err != nil {
		return err
	}
	name, err := Bootloader(snapshot, env.FirmwareArch, env.Override)
	if err != nil {
		return err
	}
	ledger := &Ledger{}
	if err := m.install(snapshot, name, image, env, ledger); err != nil {
		logger.Noticef("Bootloader installation failed, rolling back: %v", err)
		ledger.UndoAll()
		return err
	}
	ledger.CommitAll()
	logger.Debugf("installed %s from %s", name, image)
	return nil
}

func (m *Manager) install(snapshot *uint64, name, image string, env *Env, ledger *Ledger) error {
	esp := underOverride(env.Override, env.BootRoot)

	switch name {
	case NameSdboot:
		if err := UpdateSdbootConfiguration(env.BootRoot, env.Override); err != nil {
			return err
		}
	case NameGrub2:
		if err := UpdateGrub2Configuration(snapshot, env.BootRoot, env.BootDst, env.Override); err != nil {
			return err
		}
	}
	if err := UpdateRandomSeed(env.BootRoot, env.Override); err != nil {
		return err
	}

	entryFile := filepath.Base(image)
	if osutil.CanStat(snapshotShim(snapshot, env.Shimdir, env.Override)) {
		if err := CopyShimFiles(ledger, snapshot, env.Shimdir, image, env.BootRoot, env.BootDst, env.Override); err != nil {
			return err
		}
		entryFile = "shim.efi"
	} else {
		if err := CopyBootloader(ledger, image, env.BootRoot, env.BootDst, env.FirmwareArch, env.Override); err != nil {
			return err
		}
	}
	if err := WriteBootCSV(ledger, entryFile, env.BootRoot, env.BootDst, env.Override); err != nil {
		return err
	}

	// kernels and entries for this installation are keyed on the token
	if err := osutil.MkdirAllIfMissing(filepath.Join(esp, env.EntryToken), 0755); err != nil {
		return err
	}
	// the marker and the token file are replaced before the firmware
	// steps, so they go through the ledger like the images do
	marker := filepath.Join(esp, env.BootDst, markerFile)
	if err := ledger.Record(marker); err != nil {
		return err
	}
	if err := osutil.WriteFileSync(marker, []byte(env.EntryToken), 0644); err != nil {
		return err
	}
	tokenFile := underOverride(env.Override, "/etc/kernel/entry-token")
	if err := osutil.MkdirAllIfMissing(filepath.Dir(tokenFile), 0755); err != nil {
		return err
	}
	if err := ledger.Record(tokenFile); err != nil {
		return err
	}
	if err := osutil.WriteFileSync(tokenFile, []byte(env.EntryToken+"\n"), 0644); err != nil {
		return err
	}

	if env.NoVariables || env.Override != "" {
		return nil
	}
	_, source, err := system.MountUUIDSource(m.run, env.BootRoot, env.Override)
	if err != nil {
		return err
	}
	drive, partno, err := system.DriveAndPartition(source)
	if err != nil {
		return err
	}
	return system.CreateEFIBootEntry(m.run, drive, partno, filepath.Join(env.BootDst, entryFile), env.Override)
}

// IsInstalled reports whether this tool installed the bootloader that is
// currently on the ESP: its version must be readable and the
// installation marker present.
func (m *Manager) IsInstalled(snapshot *uint64, image string, env *Env) bool {
	if _, err := m.BootloaderVersion(snapshot, image, env); err != nil {
		logger.Debugf("cannot read installed bootloader version: %v", err)
		return false
	}
	marker := filepath.Join(underOverride(env.Override, env.BootRoot), env.BootDst, markerFile)
	return osutil.CanStat(marker)
}
