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

const cmdUpdateSummary = "Update the bootloader if the snapshot ships a newer one"
const cmdUpdateDescription = `
The update command replaces the bootloader images on the EFI system
partition when the snapshot ships a newer version than the installed one.
Nothing is touched when the installed bootloader is already up to date.
`

type cmdUpdate struct {
	runner system.Runner
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "update",
		Summary:     cmdUpdateSummary,
		Description: cmdUpdateDescription,
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdUpdate{runner: opts.Runner}
		},
	})
}

func (cmd cmdUpdate) Execute(args []string) error {
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
	updated, err := ctx.mgr.Update(ctx.rootSnapshot, ctx.snapshot, ctx.env)
	if err != nil {
		return err
	}
	if updated {
		noticef("Bootloader updated")
	} else {
		noticef("Bootloader is up to date")
	}
	return nil
}
