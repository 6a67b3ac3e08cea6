// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package hosts

import (
	"strings"
	"unicode/utf8"

	"github.com/siemens/hostsweep/types"
)

// DefaultMarker is the default comment marker character.
const DefaultMarker = '#'

// Parse scans a single line for an address and a domain, ignoring anything
// from the first comment marker onwards. lineno is the 1-based number of the
// line and gets passed into the returned entry. Parse returns false if the
// line doesn't contain at least two runs of content characters, or is
// shorter than four characters.
//
// Content characters are all characters except spaces, carriage returns, line
// feeds, and the comment marker. Any content past the domain is ignored.
func Parse(line string, lineno int, marker rune) (types.Entry, bool) {
	if utf8.RuneCountInString(line) < 4 {
		return types.Entry{}, false
	}
	end := len(line)
	if idx := strings.IndexRune(line, marker); idx >= 0 {
		end = idx
	}
	addrStart, addrEnd, domainStart, domainEnd := -1, -1, -1, -1
scan:
	for idx, r := range line[:end] {
		content := isContent(r, marker)
		switch {
		case addrStart < 0:
			if content {
				addrStart = idx
			}
		case addrEnd < 0:
			if !content {
				addrEnd = idx
			}
		case domainStart < 0:
			if content {
				domainStart = idx
			}
		default:
			if !content {
				domainEnd = idx
				break scan
			}
		}
	}
	// the domain might run until the end of the line or the comment.
	if domainStart >= 0 && domainEnd < 0 {
		domainEnd = end
	}
	if addrEnd < 0 || domainStart < 0 {
		return types.Entry{}, false
	}
	return types.Entry{
		Address: line[addrStart:addrEnd],
		Domain:  line[domainStart:domainEnd],
		Line:    lineno,
	}, true
}

func isContent(r rune, marker rune) bool {
	return r != ' ' && r != '\r' && r != '\n' && r != marker
}
