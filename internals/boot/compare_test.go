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
	. "gopkg.in/check.v1"

	"github.com/openSUSE/sdbootutil-sub000/internals/boot"
)

var compareTests = []struct {
	a, b  string
	lower bool
}{
	{"1.0", "2.0", true},
	{"2.0", "1.0", false},
	{"1.0", "1.1", true},
	{"1.2", "1.1", false},
	{"1.2.0", "1.2.1", true},
	{"1.2.1", "1.2.0", false},
	{"1.2.1", "1.2.1", false},
	{"1.2.1", "1.2.1.1", true},
	{"1.2.1.1", "1.2.1", false},
	{"0.9.9", "1.0.0", true},
	{"1.0.0", "0.9.9", false},

	// suse style build metadata
	{"255.3+suse.16.g12345678", "255.4+suse.17.gbe772961ad", true},
	{"255.5+suse.18.gabcd1234", "255.4+suse.17.gbe772961ad", false},
	{"255.4+suse.16.g12345678", "255.4+suse.17.gbe772961ad", true},
	{"255.4+suse.17.gbe772961ad", "255.4+suse.17.gbe772961ad", false},
	{"255.4+suse.17.gbe772961ad", "255.4+suse.16.g12345678", false},

	// pre-release and build identifiers
	{"1.0.0", "2.0.0", true},
	{"2.0.0", "1.0.0", false},
	{"1.0.0-alpha", "1.0.0-alpha.1", true},
	{"1.0.0-alpha.1", "1.0.0-alpha", false},
	{"1.0.0+build.1", "1.0.0+build.2", true},
	{"1.0.0-alpha+build.1", "1.0.0-beta+build.2", true},
	{"0.9.9-alpha+001", "1.0.0-beta+exp.sha.5114f85", true},
	{"1.0.0-rc.1+build.1", "1.0.0-rc.1+build.2", true},
	{"1.0.0-rc.1+build.2", "1.0.0-rc.1+build.1", false},
	{"1.0.0-dev.foo.bar+123", "1.0.0-dev.foo.baz+124", true},
}

func (s *bootSuite) TestIsLower(c *C) {
	for _, t := range compareTests {
		c.Check(boot.IsLower(t.a, t.b), Equals, t.lower,
			Commentf("IsLower(%q, %q)", t.a, t.b))
	}
}

func (s *bootSuite) TestIsLowerNumericBeforeLiteral(c *C) {
	// numeric identifiers order before alphanumeric ones
	c.Check(boot.IsLower("1.0.0-1", "1.0.0-alpha"), Equals, true)
	c.Check(boot.IsLower("1.0.0-alpha", "1.0.0-1"), Equals, false)
}
