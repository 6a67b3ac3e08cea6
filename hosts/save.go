// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package hosts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/thediveo/lxkns/log"
)

// BackupSuffix is appended to the names of backup files.
const BackupSuffix = ".backup"

// SaveReport tells where a [Store] was saved to.
type SaveReport struct {
	Path   string // path of the newly written file
	Backup string // path of the backup file, or "" if there was no old file
	Lines  int    // number of lines written
}

// Save writes the lines of the Store back to its file, but only if lines
// have been removed. Otherwise, Save does nothing and returns a nil report.
//
// An already existing file is first renamed into a backup file, using the
// first name not yet taken from the sequence “name.backup”, “name
// (1).backup”, “name (2).backup”, et cetera.
func (s *Store) Save() (*SaveReport, error) {
	if !s.dirty {
		log.Debugf("without modifications, nothing is saved")
		return nil, nil
	}
	path := s.Path()
	if err := checkWritable(s.dir); err != nil {
		return nil, err
	}
	report := &SaveReport{Path: path, Lines: len(s.lines)}
	perm := fs.FileMode(0644)
	info, err := os.Lstat(path)
	switch {
	case err == nil:
		if err := checkWritable(path); err != nil {
			return nil, err
		}
		perm = info.Mode().Perm()
		backup, err := backupPath(s.dir, s.name)
		if err != nil {
			return nil, err
		}
		if err := os.Rename(path, backup); err != nil {
			return nil, fmt.Errorf("cannot rename %s into backup: %w", path, err)
		}
		log.Infof("renamed %s into backup %s", path, backup)
		report.Backup = backup
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("cannot save %s: %w", path, err)
	}
	if err := writeLines(path, perm, s.lines); err != nil {
		return nil, fmt.Errorf("cannot save %s: %w", path, err)
	}
	s.dirty = false
	return report, nil
}

// backupPath returns the first backup file path in dir not yet in use.
func backupPath(dir string, name string) (string, error) {
	candidate := name + BackupSuffix
	for idx := 1; ; idx++ {
		path := filepath.Join(dir, candidate)
		_, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("cannot determine backup name: %w", err)
		}
		candidate = name + " (" + strconv.Itoa(idx) + ")" + BackupSuffix
	}
}

// fileWriter wraps the writer for newly created files; tests replace it in
// order to simulate write errors.
var fileWriter = func(f *os.File) io.Writer { return f }

// writeLines creates a new file at path and writes the lines to it, each
// line terminated by “\n”. If writing fails, the incomplete file is removed
// again.
func writeLines(path string, perm fs.FileMode, lines []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	err = writeAll(fileWriter(f), lines)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(path); rerr != nil {
			log.Errorf("cannot remove incomplete %s: %s", path, rerr)
		}
		return err
	}
	return nil
}

func writeAll(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
