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

func (s *bootSuite) TestExtractVersionSdboot(c *C) {
	content := []byte("#### LoaderInfo: systemd-boot 253.4+suse.17.gbe772961ad ####")
	v, ok := boot.ExtractVersion(content, []byte("LoaderInfo: systemd-boot "), []byte(" ####"))
	c.Assert(ok, Equals, true)
	c.Check(v, Equals, "253.4+suse.17.gbe772961ad")
}

func (s *bootSuite) TestExtractVersionGrub2(c *C) {
	content := []byte("GNU GRUB  version %s\x002.12\x00prefixESC at any time exits.")
	v, ok := boot.ExtractVersion(content, []byte("GNU GRUB  version %s\x00"), []byte("\x00"))
	c.Assert(ok, Equals, true)
	c.Check(v, Equals, "2.12")
}

func (s *bootSuite) TestExtractVersionMissingMarkers(c *C) {
	_, ok := boot.ExtractVersion([]byte("no markers here"), []byte("LoaderInfo: systemd-boot "), []byte(" ####"))
	c.Check(ok, Equals, false)

	// start without end
	_, ok = boot.ExtractVersion([]byte("LoaderInfo: systemd-boot 255.4"), []byte("LoaderInfo: systemd-boot "), []byte(" ####"))
	c.Check(ok, Equals, false)
}

func (s *bootSuite) TestExtractVersionInvalidUTF8(c *C) {
	content := append([]byte("LoaderInfo: systemd-boot "), 0xff, 0xfe)
	content = append(content, []byte(" ####")...)
	_, ok := boot.ExtractVersion(content, []byte("LoaderInfo: systemd-boot "), []byte(" ####"))
	c.Check(ok, Equals, false)
}

func (s *bootSuite) TestExtractVersionEmpty(c *C) {
	content := []byte("LoaderInfo: systemd-boot  ####")
	_, ok := boot.ExtractVersion(content, []byte("LoaderInfo: systemd-boot "), []byte(" ####"))
	c.Check(ok, Equals, false)
}

func (s *bootSuite) TestBootloaderVersionExplicitImage(c *C) {
	image := filepath.Join(s.root, "some/image.efi")
	s.writeFile(c, image, "#### LoaderInfo: systemd-boot 253.4+suse.17.gbe772961ad ####")

	v, err := s.mgr.BootloaderVersion(nil, image, s.env())
	c.Assert(err, IsNil)
	c.Check(v, Equals, "253.4+suse.17.gbe772961ad")
}

func (s *bootSuite) TestBootloaderVersionExplicitImageMissing(c *C) {
	image := filepath.Join(s.root, "missing.efi")
	_, err := s.mgr.BootloaderVersion(nil, image, s.env())
	c.Assert(err, ErrorMatches, "file does not exist: "+image)
}

func (s *bootSuite) TestBootloaderVersionNotFound(c *C) {
	image := filepath.Join(s.root, "image.efi")
	s.writeFile(c, image, "nothing that looks like a bootloader")
	_, err := s.mgr.BootloaderVersion(nil, image, s.env())
	c.Assert(err, ErrorMatches, "version not found")
}

func (s *bootSuite) TestBootloaderVersionShimRedirect(c *C) {
	env := s.env()
	// shim installed: the version lives in the chained grub.efi on the ESP
	s.writeFile(c, filepath.Join(s.root, env.Shimdir, "shim.efi"), "shim")
	s.writeFile(c, filepath.Join(s.root, "boot/efi/EFI/systemd/grub.efi"),
		"GNU GRUB  version %s\x002.12\x00rest")

	v, err := s.mgr.BootloaderVersion(nil, "", env)
	c.Assert(err, IsNil)
	c.Check(v, Equals, "2.12")
}

func (s *bootSuite) TestBootloaderVersionDetected(c *C) {
	s.writeSdboot(c, nil, "255.4+suse.17.gbe772961ad")
	v, err := s.mgr.BootloaderVersion(nil, "", s.env())
	c.Assert(err, IsNil)
	c.Check(v, Equals, "255.4+suse.17.gbe772961ad")
}

func (s *bootSuite) TestBootloaderVersionNoBootloader(c *C) {
	_, err := s.mgr.BootloaderVersion(nil, "", s.env())
	c.Assert(err, ErrorMatches, "bootloader not detected")
}
