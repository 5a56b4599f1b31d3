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

func (s *SdbootutilSuite) TestVersionCommand(c *C) {
	restore := fakeVersion("3.14")
	defer restore()

	code, err := runCommand("version")
	c.Assert(err, IsNil)
	c.Check(code, Equals, 0)
	c.Check(s.Stdout(), Equals, "3.14\n")
}
