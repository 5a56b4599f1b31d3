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

const cmdForceUpdateSummary = "Replace the bootloader regardless of version"
const cmdForceUpdateDescription = `
The force-update command replaces the bootloader images on the EFI system
partition with the snapshot's copies without comparing versions.
`

type cmdForceUpdate struct {
	runner system.Runner
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "force-update",
		Summary:     cmdForceUpdateSummary,
		Description: cmdForceUpdateDescription,
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdForceUpdate{runner: opts.Runner}
		},
	})
}

func (cmd cmdForceUpdate) Execute(args []string) error {
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
	if err := ctx.mgr.ForceUpdate(ctx.snapshot, ctx.env); err != nil {
		return err
	}
	noticef("Bootloader updated")
	return nil
}
