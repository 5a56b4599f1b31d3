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

package cmd

//go:generate ./mkversion.sh

// ProgramName is the name of the installed binary.
const ProgramName = "sdbootutil"

// Version will be overwritten at build-time via mkversion.sh
var Version = "unknown"
