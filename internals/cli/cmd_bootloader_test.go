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

package cli_test

import (
	. "gopkg.in/check.v1"
)

func (s *SdbootutilSuite) TestBootloaderSdboot(c *C) {
	s.writeSdboot(c, nil, "255.4")

	code, err := runCommand("bootloader")
	c.Assert(err, IsNil)
	c.Check(code, Equals, 0)
	c.Check(s.Stdout(), Equals, "systemd-boot\n")
}

func (s *SdbootutilSuite) TestBootloaderGrub2(c *C) {
	s.writeSdboot(c, nil, "255.4")
	s.writeGrub2(c, nil, "2.12")

	_, err := runCommand("bootloader")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Equals, "grub2\n")
}

func (s *SdbootutilSuite) TestBootloaderSnapshot(c *C) {
	s.writeGrub2(c, snapID(4), "2.12")

	_, err := runCommand("-s", "4", "bootloader")
	c.Assert(err, IsNil)
	c.Check(s.Stdout(), Equals, "grub2\n")
}

func (s *SdbootutilSuite) TestBootloaderNotDetected(c *C) {
	_, err := runCommand("bootloader")
	c.Assert(err, ErrorMatches, "bootloader not detected")
}
