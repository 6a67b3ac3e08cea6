// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Quality tells how far probing a hosts entry got and whether its address
// replied.
type Quality int

// Probing states of an entry.
const (
	Unverified Quality = iota // not yet submitted for probing
	Verifying                 // submitted, awaiting its ping
	Invalid                   // no reply in time, or not pingable at all
	Verified                  // replied in time; the entry stays
)

var qualityNames = [...]string{
	Unverified: "unverified",
	Verifying:  "verifying",
	Invalid:    "invalid",
	Verified:   "verified",
}

// String returns the lower-case name of q, as shown in log and console
// output.
func (q Quality) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return qualityNames[q]
}

// IsPending reports whether the entry still lacks a final verdict.
func (q Quality) IsPending() bool {
	return q == Unverified || q == Verifying
}
