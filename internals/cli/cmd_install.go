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
	"github.com/canonical/go-flags"

	"github.com/openSUSE/sdbootutil-sub000/internals/system"
)

const cmdInstallSummary = "Install the bootloader onto the EFI system partition"
const cmdInstallDescription = `
The install command copies the snapshot's bootloader images to the EFI
system partition, seeds the loader configuration and random seed, and
registers the bootloader with the firmware. On failure every replaced file
is rolled back to its previous state.
`

type cmdInstall struct {
	runner system.Runner
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "install",
		Summary:     cmdInstallSummary,
		Description: cmdInstallDescription,
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdInstall{runner: opts.Runner}
		},
	})
}

func (cmd cmdInstall) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	ctx, err := prepareBootContext(cmd.runner, true)
	if err != nil {
		return err
	}
	if err := ensureRoot(ctx.env.Override); err != nil {
		return err
	}
	if err := ctx.mgr.Install(ctx.snapshot, ctx.env); err != nil {
		return err
	}
	noticef("Bootloader installed")
	return nil
}
