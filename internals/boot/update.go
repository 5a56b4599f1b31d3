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
	"github.com/openSUSE/sdbootutil-sub000/internals/logger"
	"github.com/openSUSE/sdbootutil-sub000/internals/osutil"
)

// NeedsUpdate reports whether the bootloader on the ESP is older than
// the one staged in the snapshot. When either version cannot be
// determined the answer is false: a broken tree must never trigger
// writes to the ESP.
func (m *Manager) NeedsUpdate(rootSnapshot, snapshot *uint64, env *Env) bool {
	installed, err := m.BootloaderVersion(rootSnapshot, "", env)
	if err != nil {
		logger.Debugf("cannot determine installed bootloader version: %v", err)
		return false
	}
	image, err := FindBootloader(snapshot, env.FirmwareArch, env.Override)
	if err != nil {
		logger.Debugf("cannot find snapshot bootloader: %v", err)
		return false
	}
	candidate, err := versionFromImage(image)
	if err != nil {
		logger.Debugf("cannot determine snapshot bootloader version: %v", err)
		return false
	}
	if IsLower(installed, candidate) {
		logger.Debugf("bootloader update available: %s -> %s", installed, candidate)
		return true
	}
	logger.Debugf("bootloader is up to date (installed %s, snapshot %s)", installed, candidate)
	return false
}

// ForceUpdate replaces the bootloader images on the ESP with the
// snapshot's copies regardless of version, refreshing the random seed
// along the way. Replacements are guarded by a rollback ledger.
func (m *Manager) ForceUpdate(snapshot *uint64, env *Env) error {
	image, err := FindBootloader(snapshot, env.FirmwareArch, env.Override)
	if err != nil {
		return err
	}
	ledger := &Ledger{}
	if err := m.replaceImages(ledger, snapshot, image, env); err != nil {
		logger.Noticef("Bootloader update failed, rolling back: %v", err)
		ledger.UndoAll()
		return err
	}
	ledger.CommitAll()
	return nil
}

func (m *Manager) replaceImages(ledger *Ledger, snapshot *uint64, image string, env *Env) error {
	if osutil.CanStat(snapshotShim(snapshot, env.Shimdir, env.Override)) {
		if err := CopyShimFiles(ledger, snapshot, env.Shimdir, image, env.BootRoot, env.BootDst, env.Override); err != nil {
			return err
		}
	} else {
		if err := CopyBootloader(ledger, image, env.BootRoot, env.BootDst, env.FirmwareArch, env.Override); err != nil {
			return err
		}
	}
	return UpdateRandomSeed(env.BootRoot, env.Override)
}

// Update refreshes the ESP only when the snapshot carries a newer
// bootloader than the installed one. It reports whether a replacement
// took place.
func (m *Manager) Update(rootSnapshot, snapshot *uint64, env *Env) (bool, error) {
	if !m.NeedsUpdate(rootSnapshot, snapshot, env) {
		return false, nil
	}
	if err := m.ForceUpdate(snapshot, env); err != nil {
		return false, err
	}
	return true, nil
}
