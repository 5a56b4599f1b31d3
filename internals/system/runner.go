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

// Package system wraps the external commands and kernel interfaces that
// bootloader management depends on: bootctl, findmnt, efibootmgr,
// /proc/mounts and /sys/class/block.
package system

import (
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its trimmed stdout.
// It is the single capability the bootloader engine needs from the host,
// so tests can substitute canned outputs.
type Runner interface {
	Output(name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Output(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("cannot run %s: %v", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner() Runner {
	return execRunner{}
}
