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

	"github.com/openSUSE/sdbootutil-sub000/internals/system"
)

const cmdNeedsUpdateSummary = "Check whether the installed bootloader is outdated"
const cmdNeedsUpdateDescription = `
The needs-update command compares the version of the bootloader on the EFI
system partition with the one shipped in the snapshot. It exits with status
0 when an update is due and 1 otherwise.
`

type cmdNeedsUpdate struct {
	runner system.Runner
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "needs-update",
		Summary:     cmdNeedsUpdateSummary,
		Description: cmdNeedsUpdateDescription,
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdNeedsUpdate{runner: opts.Runner}
		},
	})
}

func (cmd cmdNeedsUpdate) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	ctx, err := prepareBootContext(cmd.runner, true)
	if err != nil {
		return err
	}
	if !ctx.mgr.NeedsUpdate(ctx.rootSnapshot, ctx.snapshot, ctx.env) {
		if isStdoutTTY {
			fmt.Fprintln(Stdout, "Bootloader is up to date")
		}
		panic(&exitStatus{1})
	}
	if isStdoutTTY {
		fmt.Fprintln(Stdout, "Bootloader needs update")
	}
	return nil
}
