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

const cmdIsInstalledSummary = "Check whether the bootloader was installed by this tool"
const cmdIsInstalledDescription = `
The is-installed command checks that the bootloader on the EFI system
partition carries a readable version and was put there by sdbootutil. It
exits with status 1 when it was not.
`

type cmdIsInstalled struct {
	runner system.Runner
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "is-installed",
		Summary:     cmdIsInstalledSummary,
		Description: cmdIsInstalledDescription,
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdIsInstalled{runner: opts.Runner}
		},
	})
}

func (cmd cmdIsInstalled) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	ctx, err := prepareBootContext(cmd.runner, true)
	if err != nil {
		return err
	}
	if !ctx.mgr.IsInstalled(ctx.snapshot, ctx.image, ctx.env) {
		fmt.Fprintln(Stdout, "bootloader is not installed")
		panic(&exitStatus{1})
	}
	fmt.Fprintln(Stdout, "bootloader is installed")
	return nil
}
