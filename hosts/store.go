// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package hosts

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/siemens/hostsweep/types"

	"github.com/thediveo/lxkns/log"
)

// NotFound is returned by the seek operations when there is no entry line at
// the requested position or line.
const NotFound = -1

// maxLineLength limits the length of individual lines when loading.
const maxLineLength = 1024 * 1024

// Store keeps the raw lines of a hosts-style file, as well as the numbers of
// the lines that contain entries which aren't excluded. A Store is not safe
// for concurrent use.
type Store struct {
	dir    string
	name   string
	marker rune
	filter Excluder

	lines []string // raw lines, without line terminators.
	valid []int    // ascending 1-based line numbers of valid entry lines.
	pos   int      // cursor into valid, len(valid) when exhausted.
	dirty bool     // true after removing lines.
}

// Option can be passed to Load and FromString when creating new Store
// objects.
type Option func(*Store)

// WithMarker sets the comment marker character, defaulting to “#”.
func WithMarker(marker rune) Option {
	return func(s *Store) {
		s.marker = marker
	}
}

// Removal summarizes the outcome of [Store.RemoveAll].
type Removal struct {
	Total        int      // number of entry lines before removal
	Removed      int      // number of entry lines removed
	Left         int      // number of entry lines left
	RemovedLines []string // the removed raw lines, highest line numbers first
}

// Load returns a new Store with the lines read from the file name in the
// directory dir. If either the directory or the file isn't readable, Load
// returns an error for which errors.Is(err, fs.ErrPermission) is true.
//
// Addresses in lines matching the specified filter will be skipped, but these
// lines still are part of the Store and will be saved later.
func Load(dir string, name string, filter Excluder, options ...Option) (*Store, error) {
	s := newStore(dir, name, filter, options...)
	if err := checkReadable(dir); err != nil {
		return nil, err
	}
	path := s.Path()
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load hosts file: %w", err)
	}
	defer f.Close()
	if err := s.load(f); err != nil {
		return nil, fmt.Errorf("cannot load hosts file %s: %w", path, err)
	}
	return s, nil
}

// FromString returns a new Store with the lines from the specified text. When
// saving, the Store will write into the file name in the directory dir, which
// must be readable.
func FromString(text string, dir string, name string, filter Excluder, options ...Option) (*Store, error) {
	s := newStore(dir, name, filter, options...)
	if err := checkReadable(dir); err != nil {
		return nil, err
	}
	if err := s.load(strings.NewReader(text)); err != nil {
		return nil, fmt.Errorf("cannot load hosts text: %w", err)
	}
	return s, nil
}

func newStore(dir string, name string, filter Excluder, options ...Option) *Store {
	s := &Store{
		dir:    dir,
		name:   name,
		marker: DefaultMarker,
		filter: filter,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// load reads all lines from r, keeping every raw line and noting the line
// numbers of the valid entries.
func (s *Store) load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	scanner.Split(scanLines)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		s.lines = append(s.lines, line)
		entry, ok := Parse(line, lineno, s.marker)
		if !ok {
			continue
		}
		if s.filter != nil && s.filter.Excludes(entry.Address) {
			log.Debugf("skipping filtered address %s in line %d", entry.Address, lineno)
			continue
		}
		s.valid = append(s.valid, lineno)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	log.Debugf("loaded %d lines with %d valid entries", len(s.lines), len(s.valid))
	return nil
}

// scanLines is a bufio.SplitFunc that splits at “\r\n”, “\n”, as well as
// lone “\r”.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if idx := bytes.IndexAny(data, "\r\n"); idx >= 0 {
		if data[idx] == '\n' {
			return idx + 1, data[:idx], nil
		}
		// a “\r” might be followed by a “\n”, so we need to see the next
		// byte, if there is any.
		if idx+1 < len(data) {
			if data[idx+1] == '\n' {
				return idx + 2, data[:idx], nil
			}
			return idx + 1, data[:idx], nil
		}
		if atEOF {
			return idx + 1, data[:idx], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Path returns the path of the file this Store loads from and saves to.
func (s *Store) Path() string {
	return filepath.Join(s.dir, s.name)
}

// Len returns the number of valid entries.
func (s *Store) Len() int {
	return len(s.valid)
}

// Lines returns a copy of all raw lines.
func (s *Store) Lines() []string {
	return append([]string(nil), s.lines...)
}

// ValidLines returns a copy of the line numbers of all valid entries.
func (s *Store) ValidLines() []int {
	return append([]int(nil), s.valid...)
}

// Dirty returns true if lines have been removed since loading or saving.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Next returns the entry at the cursor and advances the cursor. It returns
// false after the last valid entry has been read.
func (s *Store) Next() (types.Entry, bool) {
	if s.pos >= len(s.valid) {
		return types.Entry{}, false
	}
	lineno := s.valid[s.pos]
	s.pos++
	return Parse(s.lines[lineno-1], lineno, s.marker)
}

// Position returns the cursor position. It is Len() when all entries have
// been read.
func (s *Store) Position() int {
	return s.pos
}

// Line returns the line number of the valid entry at the specified cursor
// position, or NotFound.
func (s *Store) Line(pos int) int {
	if pos < 0 || pos >= len(s.valid) {
		return NotFound
	}
	return s.valid[pos]
}

// SeekPosition moves the cursor to the specified position, returning the line
// number of the entry at this position. Seeking to position Len() is allowed
// and exhausts the Store, returning NotFound as the line number. For
// positions out of range, the cursor is left unchanged and false returned.
func (s *Store) SeekPosition(pos int) (int, bool) {
	if pos < 0 || pos > len(s.valid) {
		return NotFound, false
	}
	s.pos = pos
	return s.Line(pos), true
}

// SeekLine moves the cursor to the valid entry on the specified line, and
// returns the line number. If there is no valid entry on this line, the
// cursor is left unchanged and NotFound returned.
func (s *Store) SeekLine(lineno int) int {
	pos := sort.SearchInts(s.valid, lineno)
	if pos >= len(s.valid) || s.valid[pos] != lineno {
		return NotFound
	}
	s.pos = pos
	return lineno
}

// RemoveAll removes the lines with the specified line numbers, as long as
// these lines contain valid entries. Line numbers refer to the lines as they
// are before removal; the remaining lines get renumbered afterwards.
func (s *Store) RemoveAll(lines map[int]struct{}) Removal {
	total := len(s.valid)
	removal := Removal{Total: total, Left: total}
	if len(lines) == 0 {
		return removal
	}
	// Going from the bottom up keeps the not yet removed line numbers
	// unaffected by the removals.
	linenos := make([]int, 0, len(lines))
	for lineno := range lines {
		linenos = append(linenos, lineno)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(linenos)))
	for _, lineno := range linenos {
		pos := sort.SearchInts(s.valid, lineno)
		if pos >= len(s.valid) || s.valid[pos] != lineno {
			log.Warnf("not removing line %d: no valid entry", lineno)
			continue
		}
		removal.RemovedLines = append(removal.RemovedLines, s.lines[lineno-1])
		s.lines = append(s.lines[:lineno-1], s.lines[lineno:]...)
		s.valid = append(s.valid[:pos], s.valid[pos+1:]...)
		for idx := pos; idx < len(s.valid); idx++ {
			s.valid[idx]--
		}
		if pos < s.pos {
			s.pos--
		}
		removal.Removed++
		s.dirty = true
	}
	removal.Left = len(s.valid)
	return removal
}
