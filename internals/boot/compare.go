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

package boot

import (
	"strconv"
	"strings"
)

type versionToken struct {
	text    string
	num     uint64
	numeric bool
}

func tokenize(s string) []versionToken {
	parts := strings.Split(s, ".")
	tokens := make([]versionToken, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		tokens[i] = versionToken{text: p, num: n, numeric: err == nil}
	}
	return tokens
}

// parseVersion splits a version string into its numeric main segments,
// the pre-release identifiers after the first '-', and the build
// metadata after '+'. Non-numeric main segments are dropped.
func parseVersion(v string) (main []uint64, pre, build []versionToken) {
	mainPre, meta, _ := strings.Cut(v, "+")
	mainOnly, preRelease, _ := strings.Cut(mainPre, "-")
	for _, s := range strings.Split(mainOnly, ".") {
		if n, err := strconv.ParseUint(s, 10, 32); err == nil {
			main = append(main, n)
		}
	}
	return main, tokenize(preRelease), tokenize(meta)
}

// compareTokens orders identifier lists: numeric identifiers compare
// numerically and sort before alphanumeric ones, equal prefixes leave
// the shorter list lower. decided is false when the lists are equal.
func compareTokens(a, b []versionToken) (lower, decided bool) {
	for i := 0; i < len(a) && i < len(b); i++ {
		ta, tb := a[i], b[i]
		switch {
		case ta.numeric && tb.numeric:
			if ta.num != tb.num {
				return ta.num < tb.num, true
			}
		case !ta.numeric && !tb.numeric:
			if ta.text != tb.text {
				return ta.text < tb.text, true
			}
		case ta.numeric:
			return true, true
		default:
			return false, true
		}
	}
	if len(a) != len(b) {
		return len(a) < len(b), true
	}
	return false, false
}

// IsLower reports whether version a orders strictly before version b.
// Main version numbers compare numerically segment by segment, then
// pre-release identifiers, then build metadata. Equal versions are not
// lower in either direction.
func IsLower(a, b string) bool {
	aMain, aPre, aBuild := parseVersion(a)
	bMain, bPre, bBuild := parseVersion(b)

	for i := 0; i < len(aMain) && i < len(bMain); i++ {
		if aMain[i] != bMain[i] {
			return aMain[i] < bMain[i]
		}
	}
	if len(aMain) != len(bMain) {
		return len(aMain) < len(bMain)
	}

	if lower, decided := compareTokens(aPre, bPre); decided {
		return lower
	}
	lower, _ := compareTokens(aBuild, bBuild)
	return lower
}
