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

package boot_test

import (
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"

	"github.com/openSUSE/sdbootutil-sub000/internals/boot"
	"github.com/openSUSE/sdbootutil-sub000/internals/osutil"
)

func (s *bootSuite) TestNeedsUpdate(c *C) {
	s.writeSdboot(c, nil, "255.3")
	s.writeSdboot(c, snapID(1), "255.4+suse.17.gbe772961ad")

	env := s.env()
	c.Check(s.mgr.NeedsUpdate(nil, snapID(1), env), Equals, true)
	// same tree on both sides, nothing to do
	c.Check(s.mgr.NeedsUpdate(snapID(1), snapID(1), env), Equals, false)
	c.Check(s.mgr.NeedsUpdate(nil, nil, env), Equals, false)
}

func (s *bootSuite) TestNeedsUpdateShimRedirect(c *C) {
	// on a shim-chained install the installed version lives in the
	// grub.efi image on the ESP, not in the vendor tree
	s.writeFile(c, filepath.Join(s.root, boot.DefaultShimdir(), "shim.efi"), "shim-image")
	s.writeFile(c, s.esp("EFI/systemd/grub.efi"), "#### LoaderInfo: systemd-boot 255.3 ####")
	s.writeSdboot(c, snapID(1), "255.4")
	env := s.env()

	c.Check(s.mgr.NeedsUpdate(nil, snapID(1), env), Equals, true)

	// already at the snapshot's version
	s.writeFile(c, s.esp("EFI/systemd/grub.efi"), "#### LoaderInfo: systemd-boot 255.4 ####")
	c.Check(s.mgr.NeedsUpdate(nil, snapID(1), env), Equals, false)
}

func (s *bootSuite) TestNeedsUpdateFailsClosed(c *C) {
	env := s.env()
	// no installed bootloader at all
	s.writeSdboot(c, snapID(1), "255.4")
	c.Check(s.mgr.NeedsUpdate(nil, snapID(1), env), Equals, false)

	// installed readable, candidate snapshot empty
	s.writeSdboot(c, nil, "255.3")
	c.Check(s.mgr.NeedsUpdate(nil, snapID(2), env), Equals, false)

	// candidate image carries no version string
	s.writeFile(c, filepath.Join(s.root, ".snapshots/3/snapshot/usr/lib/systemd-boot/systemd-bootx64.efi"), "garbage")
	c.Check(s.mgr.NeedsUpdate(nil, snapID(3), env), Equals, false)
}

func (s *bootSuite) TestUpdate(c *C) {
	s.writeSdboot(c, nil, "255.3")
	s.writeSdboot(c, snapID(1), "255.4")
	env := s.env()

	updated, err := s.mgr.Update(nil, snapID(1), env)
	c.Assert(err, IsNil)
	c.Check(updated, Equals, true)

	newImage := "#### LoaderInfo: systemd-boot 255.4 ####"
	c.Check(s.readFile(c, s.esp("EFI/systemd/systemd-bootx64.efi")), Equals, newImage)
	c.Check(s.readFile(c, s.esp("EFI/BOOT/BOOTX64.EFI")), Equals, newImage)

	seed, err := os.ReadFile(s.esp("loader/random-seed"))
	c.Assert(err, IsNil)
	c.Check(seed, HasLen, 32)

	c.Check(osutil.CanStat(s.esp("EFI/systemd/systemd-bootx64.bak")), Equals, false)
}

func (s *bootSuite) TestUpdateNotNeeded(c *C) {
	s.writeSdboot(c, nil, "255.4")
	s.writeSdboot(c, snapID(1), "255.4")
	env := s.env()

	updated, err := s.mgr.Update(nil, snapID(1), env)
	c.Assert(err, IsNil)
	c.Check(updated, Equals, false)
	c.Check(osutil.CanStat(s.esp("EFI/systemd/systemd-bootx64.efi")), Equals, false)
}

func (s *bootSuite) TestForceUpdate(c *C) {
	s.writeSdboot(c, snapID(1), "255.4")
	s.writeFile(c, s.esp("EFI/systemd/systemd-bootx64.efi"), "old-image")
	env := s.env()

	c.Assert(s.mgr.ForceUpdate(snapID(1), env), IsNil)
	c.Check(s.readFile(c, s.esp("EFI/systemd/systemd-bootx64.efi")), Equals,
		"#### LoaderInfo: systemd-boot 255.4 ####")
	c.Check(osutil.CanStat(s.esp("EFI/systemd/systemd-bootx64.bak")), Equals, false)
}

func (s *bootSuite) TestForceUpdateWithShim(c *C) {
	s.writeSdboot(c, snapID(1), "255.4")
	s.writeShim(c, snapID(1))
	s.writeFile(c, s.esp("EFI/systemd/shim.efi"), "old-shim")
	env := s.env()

	c.Assert(s.mgr.ForceUpdate(snapID(1), env), IsNil)
	c.Check(s.readFile(c, s.esp("EFI/systemd/shim.efi")), Equals, "shim-image")
	c.Check(s.readFile(c, s.esp("EFI/systemd/MokManager.efi")), Equals, "mok-image")
	c.Check(s.readFile(c, s.esp("EFI/systemd/grub.efi")), Equals, "#### LoaderInfo: systemd-boot 255.4 ####")
}

func (s *bootSuite) TestForceUpdateRollsBack(c *C) {
	s.writeSdboot(c, snapID(1), "255.4")
	dir := filepath.Join(boot.SnapshotRoot(snapID(1), s.root), boot.DefaultShimdir())
	s.writeFile(c, filepath.Join(dir, "shim.efi"), "new-shim")
	s.writeFile(c, s.esp("EFI/systemd/shim.efi"), "old-shim")
	env := s.env()

	err := s.mgr.ForceUpdate(snapID(1), env)
	c.Assert(err, ErrorMatches, "file does not exist: .*/MokManager.efi")

	c.Check(s.readFile(c, s.esp("EFI/systemd/shim.efi")), Equals, "old-shim")
	c.Check(osutil.CanStat(s.esp("EFI/systemd/shim.bak")), Equals, false)
}

func (s *bootSuite) TestForceUpdateNoBootloader(c *C) {
	err := s.mgr.ForceUpdate(snapID(1), s.env())
	c.Assert(err, ErrorMatches, "bootloader not detected")
}
