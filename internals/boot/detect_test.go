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
	"path/filepath"

	. "gopkg.in/check.v1"

	"github.com/openSUSE/sdbootutil-sub000/internals/boot"
)

func (s *bootSuite) TestSnapshotRoot(c *C) {
	c.Check(boot.SnapshotRoot(nil, ""), Equals, "/")
	c.Check(boot.SnapshotRoot(nil, s.root), Equals, s.root)
	c.Check(boot.SnapshotRoot(snapID(5), s.root), Equals, filepath.Join(s.root, ".snapshots/5/snapshot"))
	c.Check(boot.SnapshotRoot(snapID(5), ""), Equals, "/.snapshots/5/snapshot")
}

func (s *bootSuite) TestFindSdbootPrimary(c *C) {
	path := s.writeSdboot(c, nil, "255.4")
	c.Check(boot.FindSdboot(nil, "x64", s.root), Equals, path)
}

func (s *bootSuite) TestFindSdbootFallback(c *C) {
	// nothing on disk: the legacy location is reported
	c.Check(boot.FindSdboot(nil, "x64", s.root), Equals,
		filepath.Join(s.root, "usr/lib/systemd/boot/efi/systemd-bootx64.efi"))

	legacy := filepath.Join(s.root, "usr/lib/systemd/boot/efi/systemd-bootx64.efi")
	s.writeFile(c, legacy, "image")
	c.Check(boot.FindSdboot(nil, "x64", s.root), Equals, legacy)
}

func (s *bootSuite) TestFindGrub2Fallback(c *C) {
	c.Check(boot.FindGrub2(nil, s.root), Equals,
		filepath.Join(s.root, "usr/share/grub2", boot.HostArch()+"-efi", "grub.efi"))

	primary := filepath.Join(s.root, "usr/share/efi", boot.HostArch(), "grub.efi")
	s.writeFile(c, primary, "image")
	c.Check(boot.FindGrub2(nil, s.root), Equals, primary)
}

func (s *bootSuite) TestIsSdboot(c *C) {
	c.Check(boot.IsSdboot(nil, "x64", s.root), Equals, false)
	s.writeSdboot(c, nil, "255.4")
	c.Check(boot.IsSdboot(nil, "x64", s.root), Equals, true)

	// a GRUB2 image in the same tree flips the verdict
	s.writeGrub2(c, nil, "2.12")
	c.Check(boot.IsSdboot(nil, "x64", s.root), Equals, false)
	c.Check(boot.IsGrub2(nil, s.root), Equals, true)
}

func (s *bootSuite) TestBootloader(c *C) {
	_, err := boot.Bootloader(nil, "x64", s.root)
	c.Assert(err, ErrorMatches, "bootloader not detected")

	s.writeSdboot(c, nil, "255.4")
	name, err := boot.Bootloader(nil, "x64", s.root)
	c.Assert(err, IsNil)
	c.Check(name, Equals, "systemd-boot")

	s.writeGrub2(c, nil, "2.12")
	name, err = boot.Bootloader(nil, "x64", s.root)
	c.Assert(err, IsNil)
	c.Check(name, Equals, "grub2")
}

func (s *bootSuite) TestBootloaderSnapshot(c *C) {
	s.writeSdboot(c, snapID(3), "255.4")

	name, err := boot.Bootloader(snapID(3), "x64", s.root)
	c.Assert(err, IsNil)
	c.Check(name, Equals, "systemd-boot")

	// other snapshots are unaffected
	_, err = boot.Bootloader(snapID(4), "x64", s.root)
	c.Assert(err, ErrorMatches, "bootloader not detected")
}

func (s *bootSuite) TestFindBootloader(c *C) {
	_, err := boot.FindBootloader(nil, "x64", s.root)
	c.Assert(err, ErrorMatches, "bootloader not detected")

	path := s.writeSdboot(c, nil, "255.4")
	found, err := boot.FindBootloader(nil, "x64", s.root)
	c.Assert(err, IsNil)
	c.Check(found, Equals, path)
}

func (s *bootSuite) TestDetermineBootDst(c *C) {
	_, err := boot.DetermineBootDst(nil, "x64", s.root)
	c.Assert(err, ErrorMatches, "unsupported bootloader or unable to determine bootloader")

	s.writeSdboot(c, nil, "255.4")
	dst, err := boot.DetermineBootDst(nil, "x64", s.root)
	c.Assert(err, IsNil)
	c.Check(dst, Equals, "/EFI/systemd")

	s.writeGrub2(c, nil, "2.12")
	dst, err = boot.DetermineBootDst(nil, "x64", s.root)
	c.Assert(err, IsNil)
	c.Check(dst, Equals, "/EFI/opensuse")
}
