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

	"github.com/openSUSE/sdbootutil-sub000/internals/osutil"
)

func (s *SdbootutilSuite) TestUpdate(c *C) {
	s.writeSdboot(c, nil, "255.3")
	s.writeSdboot(c, snapID(1), "255.4")

	code, err := runCommand("-s", "1", "update")
	c.Assert(err, IsNil)
	c.Check(code, Equals, 0)
	c.Check(s.log.String(), Matches, `(?s).*Bootloader updated.*`)
	c.Check(s.readFile(c, s.esp("EFI/systemd/systemd-bootx64.efi")), Equals,
		"#### LoaderInfo: systemd-boot 255.4 ####")
}

func (s *SdbootutilSuite) TestUpdateUpToDate(c *C) {
	s.writeSdboot(c, nil, "255.4")
	s.writeSdboot(c, snapID(1), "255.4")

	code, err := runCommand("-s", "1", "update")
	c.Assert(err, IsNil)
	c.Check(code, Equals, 0)
	c.Check(s.log.String(), Matches, `(?s).*Bootloader is up to date.*`)
	c.Check(osutil.CanStat(s.esp("EFI/systemd/systemd-bootx64.efi")), Equals, false)
}
