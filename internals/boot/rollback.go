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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openSUSE/sdbootutil-sub000/internals/logger"
	"github.com/openSUSE/sdbootutil-sub000/internals/osutil"
)

// A RollbackItem guards one file that an installation step replaces.
// The backup lives next to the original with the extension swapped for
// ".bak".
type RollbackItem struct {
	Path string
}

// BackupPath returns where this item keeps its backup copy.
func (it RollbackItem) BackupPath() string {
	return strings.TrimSuffix(it.Path, filepath.Ext(it.Path)) + ".bak"
}

// Restore puts the previous state of the file back: the backup is moved
// over the original when one exists, otherwise a freshly created file is
// removed. Failures are logged, never propagated; rollback must keep
// going.
func (it RollbackItem) Restore() {
	backup := it.BackupPath()
	switch {
	case osutil.CanStat(backup):
		if err := os.Rename(backup, it.Path); err != nil {
			logger.Noticef("Cannot restore %s from backup: %v", it.Path, err)
		}
	case osutil.CanStat(it.Path):
		if err := os.Remove(it.Path); err != nil {
			logger.Noticef("Cannot remove %s during rollback: %v", it.Path, err)
		}
	default:
		logger.Debugf("no backup found for %s, nothing to restore", it.Path)
	}
}

// Commit drops the backup copy once the replacement is known good.
func (it RollbackItem) Commit() {
	backup := it.BackupPath()
	if !osutil.CanStat(backup) {
		return
	}
	if err := os.Remove(backup); err != nil {
		logger.Noticef("Cannot remove backup %s: %v", backup, err)
	}
}

// Ledger tracks the files an install or update replaces so a failure
// can put the previous state back in one sweep.
type Ledger struct {
	items []RollbackItem
}

// Record notes that path is about to be replaced. An existing file is
// copied to its .bak sibling first.
func (l *Ledger) Record(path string) error {
	item := RollbackItem{Path: path}
	if osutil.CanStat(path) {
		if err := osutil.CopyFile(path, item.BackupPath()); err != nil {
			return fmt.Errorf("cannot back up %s: %v", path, err)
		}
	}
	l.items = append(l.items, item)
	return nil
}

// UndoAll restores every recorded file, newest first. Individual
// failures are logged and do not stop the remaining restores.
func (l *Ledger) UndoAll() {
	for i := len(l.items) - 1; i >= 0; i-- {
		l.items[i].Restore()
	}
	l.items = nil
}

// CommitAll removes the backups left behind by Record.
func (l *Ledger) CommitAll() {
	for _, item := range l.items {
		item.Commit()
	}
	l.items = nil
}
