// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"time"
)

// Entry is an address and domain pair as found on a particular line of a
// hosts-style file. Line numbers are 1-based.
type Entry struct {
	Address string `json:"address"` // IP address (or host name) to be probed
	Domain  string `json:"domain"`  // the domain mapped onto Address
	Line    int    `json:"line"`    // 1-based line number
}

// String returns a short textual representation of an Entry, mainly for
// logging.
func (e Entry) String() string {
	return fmt.Sprintf("%s %s (line %d)", e.Address, e.Domain, e.Line)
}

// Verdict is the outcome of probing the address of an [Entry].
type Verdict struct {
	Entry
	Quality Quality       `json:"quality"` // quality (validation) state
	RTT     time.Duration `json:"rtt"`     // measured round trip when Verified
	Err     error         `json:"-"`       // optional error details for invalid addresses
}

// WithNewQuality returns a copy of this verdict with updated quality and error
// information; the round trip time is reset.
func (v Verdict) WithNewQuality(q Quality, err error) Verdict {
	return Verdict{
		Entry:   v.Entry,
		Quality: q,
		Err:     err,
	}
}
