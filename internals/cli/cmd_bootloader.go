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

package cli

import (
	"fmt"

	"github.com/canonical/go-flags"

	"github.com/openSUSE/sdbootutil-sub000/internals/boot"
	"github.com/openSUSE/sdbootutil-sub000/internals/system"
)

const cmdBootloaderSummary = "Print the detected bootloader"
const cmdBootloaderDescription = `
The bootloader command detects whether the snapshot ships systemd-boot or
GRUB2 and prints the name.
`

type cmdBootloader struct {
	runner system.Runner
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "bootloader",
		Summary:     cmdBootloaderSummary,
		Description: cmdBootloaderDescription,
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdBootloader{runner: opts.Runner}
		},
	})
}

func (cmd cmdBootloader) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	ctx, err := prepareBootContext(cmd.runner, false)
	if err != nil {
		return err
	}
	name, err := boot.Bootloader(ctx.snapshot, ctx.env.FirmwareArch, ctx.env.Override)
	if err != nil {
		return err
	}
	fmt.Fprintln(Stdout, name)
	return nil
}
